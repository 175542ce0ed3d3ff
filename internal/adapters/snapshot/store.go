// Package snapshot persists pipeline inputs and outputs as JSON files
// under a data directory. The scoring engine never reads or writes files
// itself; everything it consumes arrives through this store.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/gw2"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/domain/types"
)

// File names under the data directory. item_prices.json and
// item_names.json are static lookups consumed by the frontend.
const (
	logFile     = "guild_log.json"
	membersFile = "guild_members.json"
	guildFile   = "guild_info.json"
	pricesFile  = "item_prices.json"
	namesFile   = "item_names.json"
	boardFile   = "leaderboard.json"
	emblemFile  = "guild_emblem.svg"
)

// Store reads and writes snapshot files under one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the data directory path.
func (s *Store) Dir() string { return s.dir }

// LoadLog reads the stored guild log. A missing file yields an empty log
// with a zero cursor.
func (s *Store) LoadLog() (*Log, error) {
	l := &Log{}
	err := s.readJSON(logFile, l)
	if errors.Is(err, os.ErrNotExist) {
		return &Log{}, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// SaveLog writes the guild log snapshot.
func (s *Store) SaveLog(l *Log) error {
	return s.writeJSON(logFile, l)
}

// LoadMembers reads the current member list. A missing file returns nil
// members with no error; downstream skips the member filter in that case.
func (s *Store) LoadMembers() ([]gw2.Member, error) {
	var members []gw2.Member
	err := s.readJSON(membersFile, &members)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return members, nil
}

// SaveMembers writes the current member list.
func (s *Store) SaveMembers(members []gw2.Member) error {
	return s.writeJSON(membersFile, members)
}

// LoadGuildInfo reads the stored guild metadata.
func (s *Store) LoadGuildInfo() (gw2.GuildInfo, error) {
	var info gw2.GuildInfo
	if err := s.readJSON(guildFile, &info); err != nil {
		return gw2.GuildInfo{}, err
	}
	return info, nil
}

// SaveGuildInfo writes the guild metadata.
func (s *Store) SaveGuildInfo(info gw2.GuildInfo) error {
	return s.writeJSON(guildFile, info)
}

// SavePriceTables writes the item price and name lookups.
func (s *Store) SavePriceTables(prices map[int]int, names map[int]string) error {
	if err := s.writeJSON(pricesFile, prices); err != nil {
		return err
	}
	return s.writeJSON(namesFile, names)
}

// LoadLeaderboard reads the last computed leaderboard document.
func (s *Store) LoadLeaderboard() (*types.LeaderboardDoc, error) {
	doc := &types.LeaderboardDoc{}
	if err := s.readJSON(boardFile, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SaveLeaderboard writes the leaderboard document.
func (s *Store) SaveLeaderboard(doc *types.LeaderboardDoc) error {
	return s.writeJSON(boardFile, doc)
}

// LoadEmblem reads the cached emblem SVG.
func (s *Store) LoadEmblem() ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, emblemFile))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", emblemFile, err)
	}
	return b, nil
}

// SaveEmblem writes the emblem SVG.
func (s *Store) SaveEmblem(svg []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, emblemFile), svg, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", emblemFile, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
