package bias

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"RTMonitor/internal/model"
)

// FileProvider reads bias labels from a JSON file shaped as an object
// of instrument to label, e.g. {"EUR_USD": "Up"}. A missing file is
// treated as an empty store.
type FileProvider struct {
	Path string
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

func (p *FileProvider) Load() (map[string]model.Bias, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]model.Bias{}, nil
		}
		return nil, fmt.Errorf("read bias file: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse bias file %s: %w", p.Path, err)
	}

	out := make(map[string]model.Bias, len(raw))
	for instrument, label := range raw {
		b := model.ParseBias(label)
		if b == model.BiasUnlabeled && label != "" {
			log.Warn().Str("instrument", instrument).Str("label", label).Msg("unknown bias label ignored")
		}
		out[instrument] = b
	}
	return out, nil
}

func (p *FileProvider) ModTime() (time.Time, error) {
	info, err := os.Stat(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("stat bias file: %w", err)
	}
	return info.ModTime(), nil
}
