package news

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// snapshotFile 快照的持久化格式：{"news":[...],"expiry":{id: RFC3339}}
type snapshotFile struct {
	News   []NewsItem        `json:"news"`
	Expiry map[string]string `json:"expiry"`
}

// SaveToFile 将存活条目与过期表整体序列化到一个 JSON 文件。
// 先写临时文件再改名，避免进程中途退出留下半个快照
func (c *Cache) SaveToFile(path string) error {
	c.mu.Lock()
	snap := snapshotFile{
		News:   make([]NewsItem, 0, len(c.items)),
		Expiry: make(map[string]string, len(c.expiry)),
	}
	for id, it := range c.items {
		snap.News = append(snap.News, *it)
		snap.Expiry[id] = c.expiry[id].Format(time.RFC3339)
	}
	c.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: marshal: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("snapshot: mkdir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}

// LoadFromFile 启动时从快照恢复缓存与过期表，随后立即清理停机期间已过期的条目。
// 快照里缺少过期时间的条目按其紧急层级重新计算
func (c *Cache) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("snapshot: read: %w", err)
	}

	var snap snapshotFile
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("snapshot: unmarshal: %w", err)
	}

	c.mu.Lock()
	for i := range snap.News {
		it := snap.News[i]
		if it.ID == "" {
			continue
		}
		if _, ok := c.items[it.ID]; ok {
			continue
		}
		stored := it
		c.items[it.ID] = &stored

		if raw, ok := snap.Expiry[it.ID]; ok {
			if exp, err := time.Parse(time.RFC3339, raw); err == nil {
				c.expiry[it.ID] = exp
				continue
			}
		}
		c.expiry[it.ID] = c.now().Add(c.ttl.TTL(it.Urgency))
	}
	c.mu.Unlock()

	c.CleanupExpired()
	return nil
}
