package session

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// 常量定义
const (
	SourceFileExtension = ".kes" // 源码文件后缀
)

// IsSourceFile 判断路径是否为 Kestrel 源文件
func IsSourceFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), SourceFileExtension)
}

// CollectSources 展开输入路径：文件原样保留，目录递归收集其中的源文件
//
// 结果已去重并按路径排序。以 '.' 开头的子目录会被跳过。
func CollectSources(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		key := normalizePath(path)
		if !seen[key] {
			seen[key] = true
			out = append(out, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if p != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if IsSourceFile(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", path, err)
		}
	}

	sort.Strings(out)
	return out, nil
}

// loadFile 加载源文件内容
func loadFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read source file: %w", err)
	}
	return string(content), nil
}

// normalizePath 规范化路径
func normalizePath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return filepath.Clean(absPath)
}
