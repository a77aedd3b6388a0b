package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"integoreport/internal/database"
	"integoreport/internal/freshservice"
	"integoreport/internal/models"
	"integoreport/internal/progress"
	"integoreport/internal/services"
	"integoreport/pkg/config"
	"integoreport/pkg/logger"

	"github.com/schollz/progressbar/v3"
)

const usage = `Usage: integoreport <command> [options]

Commands:
  roster                         从上游重建客户花名册
  collect   -client <id>         采集单客户数据（可选 -start -end -type）
  summarize -client <id>         输出客户的汇总统计(JSON)
  render    -client <id>         渲染HTML报告（可选 -out 输出路径）
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.GetConfig()
	log := logger.GetLogger()

	if err := database.Initialize(cfg); err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	defer database.Close()
	if err := database.Migrate(); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	var err error
	switch os.Args[1] {
	case "roster":
		err = runRoster()
	case "collect":
		err = runCollect(os.Args[2:])
	case "summarize":
		err = runSummarize(os.Args[2:])
	case "render":
		err = runRender(os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func runRoster() error {
	fs, err := freshservice.New(&config.GetConfig().Freshservice)
	if err != nil {
		return err
	}
	entries, err := services.NewRosterService().BuildRoster(fs)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%10d  %s\n", e.ClientID, e.Name)
	}
	fmt.Printf("共 %d 个客户\n", len(entries))
	return nil
}

func runCollect(args []string) error {
	fset := flag.NewFlagSet("collect", flag.ExitOnError)
	clientID := fset.Int64("client", 0, "客户ID（必填）")
	start := fset.String("start", "", "窗口起始日 YYYY-MM-DD（含）")
	end := fset.String("end", "", "窗口结束日 YYYY-MM-DD（不含）")
	kind := fset.String("type", "", "实体类型提示 company/department")
	fset.Parse(args)

	if *clientID <= 0 {
		return fmt.Errorf("必须指定 -client")
	}
	if (*start == "") != (*end == "") {
		return fmt.Errorf("-start 和 -end 必须成对提供")
	}

	opts := services.CollectOptions{Hint: models.ClientKind(*kind)}
	if *start != "" {
		window, err := models.ParseWindow(*start, *end)
		if err != nil {
			return err
		}
		opts.Window = &window
	}

	fs, err := freshservice.New(&config.GetConfig().Freshservice)
	if err != nil {
		return err
	}

	// 订阅进度事件驱动终端进度条
	events, cancel := progress.GetHub().Subscribe(*clientID)
	defer cancel()
	barDone := make(chan struct{})
	go func() {
		defer close(barDone)
		var bar *progressbar.ProgressBar
		for ev := range events {
			switch ev.Stage {
			case progress.StageEnrich:
				if bar == nil && ev.Total > 0 {
					bar = progressbar.NewOptions(ev.Total,
						progressbar.OptionSetDescription("enriching tickets"),
						progressbar.OptionShowCount(),
						progressbar.OptionSetWidth(30))
				}
				if bar != nil {
					_ = bar.Set(ev.Current)
				}
			case progress.StageDone, progress.StageFailed:
				if bar != nil {
					_ = bar.Finish()
					fmt.Println()
				}
				return
			}
		}
	}()

	result, err := services.NewCollectorService(fs).Collect(*clientID, opts)
	cancel()
	<-barDone
	if err != nil {
		return err
	}

	fmt.Printf("采集完成: %s（%d），窗口 %s，工单 %d 个，剔除 %d，耗时 %d 秒\n",
		result.Client.Name, result.Client.ID, result.Window,
		result.TicketCount, result.Skipped, result.DurationSec)
	return nil
}

func runSummarize(args []string) error {
	fset := flag.NewFlagSet("summarize", flag.ExitOnError)
	clientID := fset.Int64("client", 0, "客户ID（必填）")
	fset.Parse(args)

	if *clientID <= 0 {
		return fmt.Errorf("必须指定 -client")
	}

	stats, err := services.NewReportService().Summarize(*clientID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runRender(args []string) error {
	fset := flag.NewFlagSet("render", flag.ExitOnError)
	clientID := fset.Int64("client", 0, "客户ID（必填）")
	out := fset.String("out", "", "输出文件路径，缺省为 report_<id>.html")
	fset.Parse(args)

	if *clientID <= 0 {
		return fmt.Errorf("必须指定 -client")
	}

	html, err := services.NewReportService().RenderHTML(*clientID)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("report_%d.html", *clientID)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %v", err)
	}
	fmt.Printf("报告已生成: %s\n", path)
	return nil
}
