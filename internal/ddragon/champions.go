package ddragon

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"
)

// championData mirrors one entry of champion.json
type championData struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Champion identifies a playable character
type Champion struct {
	Key  int    `json:"key"`  // Stable numeric key (e.g. 103)
	ID   string `json:"id"`   // Asset ID (e.g. "Ahri", "MonkeyKing")
	Name string `json:"name"` // Display name (e.g. "Wukong")
}

// Champions fetches every champion for a version, sorted by key
func (c *Client) Champions(ctx context.Context, version string) ([]Champion, error) {
	url := fmt.Sprintf("%s/cdn/%s/data/%s/champion.json", c.baseURL, version, c.locale)

	var champData struct {
		Data map[string]championData `json:"data"`
	}
	if err := c.getJSON(ctx, url, &champData); err != nil {
		return nil, fmt.Errorf("failed to fetch champions: %w", err)
	}

	champions := make([]Champion, 0, len(champData.Data))
	for id, champ := range champData.Data {
		key, err := strconv.Atoi(champ.Key)
		if err != nil {
			c.logger.Warn("skipping champion with non-numeric key",
				zap.String("champion", id), zap.String("key", champ.Key))
			continue
		}
		champions = append(champions, Champion{
			Key:  key,
			ID:   id,
			Name: champ.Name,
		})
	}

	sort.Slice(champions, func(i, j int) bool {
		return champions[i].Key < champions[j].Key
	})

	c.logger.Info("loaded champions", zap.Int("count", len(champions)), zap.String("version", version))
	return champions, nil
}
