// Package main provides localization for the camintel CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Extract frames from videos at fixed intervals for downstream annotation.": "後続のアノテーション処理のために動画から一定間隔でフレームを抽出します。",

		// Runtime messages
		"Interrupted, shutting down...":                              "中断されました。シャットダウン中...",
		"ffmpeg not found, videos cannot be decoded: %v":             "ffmpeg が見つからないため動画をデコードできません: %v",
		"Using ffmpeg at %s":                                         "ffmpeg を使用します: %s",
		"Dry run: frames are decoded and counted but not written":    "ドライラン: フレームはデコードして数えるだけで書き込みません",
		"Extracting frames from %s to %s every %gs":                  "%s から %s へ %g 秒ごとにフレームを抽出します",
		"Summary saved to %s":                                        "サマリーを %s に保存しました",
		"Failed to write summary: %s":                                "サマリーの書き込みに失敗しました: %s",
	})
}
