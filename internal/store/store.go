package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/jarchive/internal/domain"
	"github.com/John-Robertt/jarchive/internal/infra/fsx"
)

// Store 提供 <path>/ 下的产物与缓存读写。
//
// 布局：
// - metadata.json        赛季 -> 比赛 id 的聚合记录（seasons 命令的唯一产物）
// - games/<id>.csv       每场比赛一个行式记录文件
// - cache/html/<id>.html 抓取到的原始页面（命中则不再打网络）
//
// 约束：
// - dry-run：只允许读（ReadOnly=true）
// - apply：允许写（ReadOnly=false）
type Store struct {
	Root     string
	ReadOnly bool
}

var ErrReadOnly = errors.New("store: read-only")

func New(root string, readOnly bool) Store {
	return Store{
		Root:     filepath.Clean(strings.TrimSpace(root)),
		ReadOnly: readOnly,
	}
}

func (s Store) MetadataPath() string {
	return filepath.Join(s.Root, "metadata.json")
}

func (s Store) GameCSVPath(id domain.GameID) (string, error) {
	if id == "" {
		return "", fmt.Errorf("game id 不能为空")
	}
	return filepath.Join(s.Root, "games", string(id)+".csv"), nil
}

func (s Store) GameHTMLPath(id domain.GameID) (string, error) {
	if id == "" {
		return "", fmt.Errorf("game id 不能为空")
	}
	return filepath.Join(s.Root, "cache", "html", string(id)+".html"), nil
}

// ReadMetadata 读取 metadata.json。文件不存在不算错误（ok=false）。
func (s Store) ReadMetadata() (domain.Metadata, bool, error) {
	b, err := os.ReadFile(s.MetadataPath())
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Metadata{}, false, nil
		}
		return domain.Metadata{}, false, err
	}
	var m domain.Metadata
	if err := json.Unmarshal(b, &m); err != nil {
		return domain.Metadata{}, true, fmt.Errorf("metadata.json 解析失败：%w", err)
	}
	return m, true, nil
}

// WriteMetadata 原子写入 metadata.json（覆盖旧文件）。
func (s Store) WriteMetadata(m domain.Metadata) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicReplace(s.Root, "metadata.json", b)
}

// HasGameCSV 判断某场比赛的输出文件是否已存在（存在即 skip）。
func (s Store) HasGameCSV(id domain.GameID) bool {
	p, err := s.GameCSVPath(id)
	if err != nil {
		return false
	}
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

func (s Store) WriteGameCSV(id domain.GameID, data []byte) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	if id == "" {
		return fmt.Errorf("game id 不能为空")
	}
	return fsx.WriteFileAtomicReplace(filepath.Join(s.Root, "games"), string(id)+".csv", data)
}

func (s Store) ReadGameHTML(id domain.GameID) ([]byte, bool, error) {
	p, err := s.GameHTMLPath(id)
	if err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (s Store) WriteGameHTML(id domain.GameID, html []byte) error {
	if s.ReadOnly {
		return ErrReadOnly
	}
	if id == "" {
		return fmt.Errorf("game id 不能为空")
	}
	return fsx.WriteFileAtomicReplace(filepath.Join(s.Root, "cache", "html"), string(id)+".html", html)
}
