package simulator

import (
	"fmt"
	"strings"
)

type Locale string

const (
	LocaleEnglish  Locale = "en"
	LocaleJapanese Locale = "ja"
)

// ParseLocale reports false for anything other than a supported locale tag.
func ParseLocale(raw string) (Locale, bool) {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case "", LocaleEnglish:
		return LocaleEnglish, true
	case LocaleJapanese:
		return LocaleJapanese, true
	default:
		return LocaleEnglish, false
	}
}

// messages holds the fixed status phrases for one locale.
type messages struct {
	listFailed     string
	listParseError string
	bootOK         string
	bootFailed     string
	shutdownOK     string
	shutdownFailed string
	installOK      string
	installFailed  string
	launchOK       string
	launchFailed   string
	buildOK        string
	buildFailed    string
	appRunning     string
	appStopped     string
	statusFailed   string
}

var catalogs = map[Locale]messages{
	LocaleEnglish: {
		listFailed:     "Command failed",
		listParseError: "Failed to parse device list JSON",
		bootOK:         "Device booted",
		bootFailed:     "Boot failed",
		shutdownOK:     "Device shut down",
		shutdownFailed: "Shutdown failed",
		installOK:      "App installed",
		installFailed:  "Install failed",
		launchOK:       "App launched",
		launchFailed:   "App launch failed",
		buildOK:        "Build succeeded",
		buildFailed:    "Build failed",
		appRunning:     "running",
		appStopped:     "stopped",
		statusFailed:   "Status check failed",
	},
	LocaleJapanese: {
		listFailed:     "コマンド失敗",
		listParseError: "JSON解析エラー",
		bootOK:         "起動成功",
		bootFailed:     "起動失敗",
		shutdownOK:     "シャットダウン成功",
		shutdownFailed: "シャットダウン失敗",
		installOK:      "インストール成功",
		installFailed:  "インストール失敗",
		launchOK:       "アプリ起動成功",
		launchFailed:   "アプリ起動失敗",
		buildOK:        "ビルド成功",
		buildFailed:    "ビルド失敗",
		appRunning:     "実行中",
		appStopped:     "停止中",
		statusFailed:   "状態確認失敗",
	},
}

func messagesFor(locale Locale) messages {
	if m, ok := catalogs[locale]; ok {
		return m
	}
	return catalogs[LocaleEnglish]
}

// withDetail renders "<phrase>: <detail>".
func withDetail(phrase, detail string) string {
	return fmt.Sprintf("%s: %s", phrase, detail)
}

// withBlock renders "<phrase>:\n<detail>" for multi-line tool output.
func withBlock(phrase, detail string) string {
	return fmt.Sprintf("%s:\n%s", phrase, detail)
}
