//go:build windows

package main

import (
	"strings"

	"golang.org/x/sys/windows"
)

// detectWindowsChinese 用户首选界面语言的第一项是否为中文
//
// 语言名形如 zh-CN、zh-TW、zh-HK。
func detectWindowsChinese() bool {
	langs, err := windows.GetUserPreferredUILanguages(windows.MUI_LANGUAGE_NAME)
	if err != nil || len(langs) == 0 {
		return false
	}
	return strings.HasPrefix(strings.ToLower(langs[0]), "zh")
}

// getWindowsLocale 获取系统首选界面语言名称
func getWindowsLocale() string {
	langs, err := windows.GetSystemPreferredUILanguages(windows.MUI_LANGUAGE_NAME)
	if err != nil || len(langs) == 0 {
		return ""
	}
	return langs[0]
}
