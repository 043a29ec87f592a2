package fsx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteFileAtomicReplace_CreateAndOverwrite(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "metadata.json", []byte("v1")); err != nil {
		t.Fatalf("首次写入失败：%v", err)
	}
	if err := WriteFileAtomicReplace(dir, "metadata.json", []byte("v2")); err != nil {
		t.Fatalf("覆盖写入失败：%v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "metadata.json"))
	if err != nil {
		t.Fatalf("读取失败：%v", err)
	}
	if string(b) != "v2" {
		t.Fatalf("内容不正确：%q", string(b))
	}
}

func TestWriteFileAtomicReplace_NoTempLeftover(t *testing.T) {
	dir := t.TempDir()

	if err := WriteFileAtomicReplace(dir, "4596.csv", []byte("round,category\n")); err != nil {
		t.Fatalf("写入失败：%v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir 失败：%v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Fatalf("残留临时文件：%s", e.Name())
		}
	}
}

func TestWriteFileAtomicReplace_DirConflict(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "metadata.json"), 0o755); err != nil {
		t.Fatalf("构造目录冲突失败：%v", err)
	}

	err := WriteFileAtomicReplace(dir, "metadata.json", []byte("x"))
	if !IsPathTypeConflict(err) {
		t.Fatalf("期望 PathTypeConflictError，实际 %T：%v", err, err)
	}
}

func TestWriteFileAtomicReplace_CreatesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "games")

	if err := WriteFileAtomicReplace(dir, "1.csv", []byte("x")); err != nil {
		t.Fatalf("写入失败：%v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "1.csv")); err != nil {
		t.Fatalf("目标文件不存在：%v", err)
	}
}
