package memory

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/starshine-sys/gatekeeper/store"
)

var _ store.MemberStore = (*Store)(nil)

func (s *Store) IsGuildCached(_ context.Context, guildID discord.GuildID) (bool, error) {
	s.membersMu.RLock()
	defer s.membersMu.RUnlock()

	_, ok := s.cachedGuilds[guildID]
	return ok, nil
}

func (s *Store) MarkGuildCached(_ context.Context, guildID discord.GuildID) error {
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	s.cachedGuilds[guildID] = struct{}{}
	return nil
}

func (s *Store) Member(_ context.Context, guildID discord.GuildID, userID discord.UserID) (discord.Member, error) {
	s.membersMu.RLock()
	defer s.membersMu.RUnlock()

	m, ok := s.members[memberKey{guildID, userID}]
	if !ok {
		return discord.Member{}, store.ErrNotFound
	}

	return *m, nil
}

func (s *Store) Members(_ context.Context, guildID discord.GuildID) (ms []discord.Member, err error) {
	s.membersMu.RLock()
	defer s.membersMu.RUnlock()

	for _, id := range s.guildMembers[guildID] {
		m, ok := s.members[memberKey{guildID, id}]
		if ok {
			ms = append(ms, *m)
		}
	}

	return ms, nil
}

func (s *Store) SetMember(_ context.Context, guildID discord.GuildID, m discord.Member) error {
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	s.setMember(guildID, m)
	return nil
}

func (s *Store) SetMembers(_ context.Context, guildID discord.GuildID, ms []discord.Member) error {
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	for _, m := range ms {
		s.setMember(guildID, m)
	}
	return nil
}

// setMember must be called with membersMu held.
func (s *Store) setMember(guildID discord.GuildID, m discord.Member) {
	s.members[memberKey{guildID, m.User.ID}] = &m

	if !contains(s.guildMembers[guildID], m.User.ID) {
		s.guildMembers[guildID] = append(s.guildMembers[guildID], m.User.ID)
	}
}

func (s *Store) DeleteMember(_ context.Context, guildID discord.GuildID, userID discord.UserID) error {
	s.membersMu.Lock()
	defer s.membersMu.Unlock()

	delete(s.members, memberKey{guildID, userID})
	s.guildMembers[guildID] = remove(s.guildMembers[guildID], userID)

	return nil
}
