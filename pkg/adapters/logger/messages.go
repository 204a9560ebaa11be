package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Batch level messages
		"No video files found in %s":                                 "%s に動画ファイルが見つかりません",
		"Found %d video file(s) to process":                          "処理対象の動画ファイルが %d 件見つかりました",
		"Error processing video %s: %v":                              "動画 %s の処理中にエラーが発生しました: %v",
		"Batch completed: %d succeeded, %d failed, %d frames written": "バッチ完了: 成功 %d 件, 失敗 %d 件, 書き込みフレーム %d 枚",

		// Sampler (per video)
		"Processing video: %s":                                "動画を処理中: %s",
		"Video FPS: %.2f, Total frames: %d, Duration: %.2fs":  "動画 FPS: %.2f, 総フレーム数: %d, 再生時間: %.2f秒",
		"Saved frame %s at timestamp %s":                      "フレーム %s を保存しました (タイムスタンプ %s)",
		"Extracted %d frames from %s":                         "%d フレームを %s から抽出しました",
		"Sampling interval of %.3fs is shorter than one frame at %.2f fps, keeping every frame": "抽出間隔 %.3f秒 は %.2f fps の1フレームより短いため、全フレームを保存します",

		// Probe
		"Probed %s from mp4 boxes: %s %dx%d":                        "%s をMP4ボックスから解析: %s %dx%d",
		"Probed %s with ffprobe: %s %dx%d":                          "%s を ffprobe で解析: %s %dx%d",
		"MP4 box probe failed for %s, falling back to ffprobe: %v": "%s のMP4ボックス解析に失敗したため ffprobe を使用します: %v",
	})
}
