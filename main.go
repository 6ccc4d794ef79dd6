package main

import (
	"flag"
	"log/slog"
	"os"
	"runtime/pprof"
	"time"

	"github.com/Pamekitti/building-physics-sim/building_physics"
)

func main() {
	var config_path string
	flag.StringVar(&config_path, "c", "", "建物設定ファイル（YAMLまたはJSON）。省略時は組み込み既定値。")

	var weather_path string
	flag.StringVar(&weather_path, "w", "", "EPW気象データファイル。必ず指定します。")

	var out_dir string
	flag.StringVar(&out_dir, "o", "out", "出力フォルダ。実行毎にサブフォルダを作成します。")

	var mode_name string
	flag.StringVar(&mode_name, "mode", "design", "実行モード: design, annual, rc, sensitivity, all")

	var scenario string
	flag.StringVar(&scenario, "scenario", "", "実行する運転シナリオ名（S1〜S4）。省略時は全シナリオ。")

	var plots bool
	flag.BoolVar(&plots, "plots", true, "PNG図表を出力するか否かを指定します。")

	var workers int
	flag.IntVar(&workers, "workers", 0, "感度解析のワーカー数。0でCPU数。")

	var progress bool
	flag.BoolVar(&progress, "progress", true, "感度解析の進捗バーを表示するか否かを指定します。")

	var pprof_enable bool
	flag.BoolVar(&pprof_enable, "pprof", false, "プロファイリングを実行し、cpu.prof ファイルに保存します。")

	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if weather_path == "" {
		logger.Error("missing required flag", "flag", "-w")
		os.Exit(1)
	}

	mode, err := building_physics.RunModeFromString(mode_name)
	if err != nil {
		logger.Error("invalid run mode", "mode", mode_name, "error", err)
		os.Exit(1)
	}

	if pprof_enable {
		f, err := os.Create("cpu.prof")
		if err != nil {
			logger.Error("create cpu.prof", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Error("close cpu.prof", "error", err)
			}
		}()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Error("start profile", "error", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	start := time.Now()

	err = building_physics.Run(building_physics.RunOptions{
		ConfigPath:  config_path,
		WeatherPath: weather_path,
		OutDir:      out_dir,
		Mode:        mode,
		Scenario:    scenario,
		Plots:       plots,
		Workers:     workers,
		Progress:    progress,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("elapsed_time", "elapsed", time.Since(start))
}
