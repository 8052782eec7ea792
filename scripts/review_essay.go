// 离线批量批改申论脚本
//
// 从 YAML 读取作文列表，逐篇运行批改循环，结果写回 YAML 并保存到数据库。
// 用于模型或提示词调整后对历史样本做回归对比。
//
// 用法: go run scripts/review_essay.go -input essays.yaml -output results.yaml

package main

import (
	"civilpass_backend/internal/config"
	"civilpass_backend/internal/model"
	"civilpass_backend/internal/prompt"
	"civilpass_backend/internal/repository"
	"civilpass_backend/internal/service"
	"civilpass_backend/pkg/database"
	"civilpass_backend/pkg/logger"
	"context"
	"flag"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type essayJob struct {
	TargetScore *int `yaml:"target_score"`
	MaxRounds   *int `yaml:"max_rounds"`
	Essays      []struct {
		ID   string `yaml:"id"`
		Text string `yaml:"text"`
	} `yaml:"essays"`
}

type essayResult struct {
	ID       string              `yaml:"id"`
	Rounds   int                 `yaml:"rounds"`
	Total    int                 `yaml:"total"`
	Outcome  model.ReviewOutcome `yaml:"outcome"`
	Scores   map[string]int      `yaml:"scores,omitempty"`
	Warning  string              `yaml:"warning,omitempty"`
	Feedback string              `yaml:"feedback"`
	ReviewID uint                `yaml:"review_id,omitempty"`
}

func main() {
	input := flag.String("input", "essays.yaml", "作文列表")
	output := flag.String("output", "results.yaml", "结果输出文件")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("无法读取作文列表: %v", err)
	}
	var job essayJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		log.Fatalf("解析作文列表失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	essayAI := service.NewEssayAI(service.NewAIService(cfg.AI), prompt.MustLoad())
	essays := service.NewEssayService(
		service.NewEssayLoop(essayAI, essayAI, model.RubricLabels()),
		repository.NewEssayReviewRepository(db),
		cfg.Essay,
	)

	results := make([]essayResult, 0, len(job.Essays))
	for _, e := range job.Essays {
		log.Printf("批改 %s ...", e.ID)
		res, err := essays.Review(context.Background(), "script", service.ReviewRequest{
			Text:        e.Text,
			TargetScore: job.TargetScore,
			MaxRounds:   job.MaxRounds,
		}, nil)
		if err != nil {
			log.Printf("跳过 %s: %v", e.ID, err)
			continue
		}
		results = append(results, essayResult{
			ID:       e.ID,
			Rounds:   len(res.History),
			Total:    res.Final.Total,
			Outcome:  res.Outcome,
			Scores:   res.Final.Scores,
			Warning:  res.Warning,
			Feedback: res.Final.Feedback,
			ReviewID: res.ID,
		})
	}

	out, err := yaml.Marshal(results)
	if err != nil {
		log.Fatalf("序列化结果失败: %v", err)
	}
	if err := os.WriteFile(*output, out, 0644); err != nil {
		log.Fatalf("写入结果失败: %v", err)
	}
	log.Printf("完成！共 %d 篇，结果写入 %s", len(results), *output)
}
