package adventure

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

const saveNameLayout = "20060102_150405"

// Saves writes one timestamped file per saved game.
type Saves struct {
	dir string
	now func() time.Time
}

func NewSaves(dir string, now func() time.Time) (*Saves, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("save directory is required")
	}
	if now == nil {
		now = time.Now
	}
	return &Saves{dir: filepath.Clean(dir), now: now}, nil
}

// Write stores g as save_YYYYMMDD_HHMMSS.json and returns the file path.
func (s *Saves) Write(g *GameState) (string, error) {
	if g == nil {
		return "", errors.New("game state is nil")
	}
	now := s.now()
	snapshot := g.Clone()
	snapshot.Timestamp = now

	path := filepath.Join(s.dir, fmt.Sprintf("save_%s.json", now.Format(saveNameLayout)))
	if err := recordstore.WriteDocument(path, snapshot); err != nil {
		return "", err
	}
	log.Info().Str("path", path).Msg("game saved")
	return path, nil
}
