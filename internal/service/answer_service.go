package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/edukits/ragtutor/internal/ai"
	"github.com/edukits/ragtutor/internal/model"
	appErr "github.com/edukits/ragtutor/internal/pkg/errors"
	"github.com/edukits/ragtutor/internal/prompt"
	"github.com/edukits/ragtutor/internal/retriever"
)

var ErrAIUnavailable = ai.ErrUnavailable

const (
	answerNotConfigured    = "LLM not configured: please set a valid API key on the server."
	answerGenerationFailed = "Error: Unable to generate a response with any available model. Please check the server configuration."
)

type AnswerConfig struct {
	DefaultK           int
	DefaultTemperature float32
	IncludeSources     bool
	Timeout            time.Duration
}

// AnswerService orchestrates retrieval, prompt assembly and generation for
// one question. Generation failures degrade to a textual answer so the ask
// contract stays available even with no working model.
type AnswerService struct {
	retriever *retriever.Retriever
	generator ai.IGenerator
	cfg       AnswerConfig
}

func NewAnswerService(r *retriever.Retriever, generator ai.IGenerator, cfg AnswerConfig) *AnswerService {
	return &AnswerService{retriever: r, generator: generator, cfg: cfg}
}

func (s *AnswerService) Answer(ctx context.Context, req model.AskRequest) (*model.AskResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, appErr.ErrEmptyQuestion
	}
	k := req.K
	if k <= 0 {
		k = s.cfg.DefaultK
	}
	temperature := s.cfg.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	base, chainOfThought := prompt.Resolve(prompt.Flags{
		ZeroShot:       req.UseZeroShot,
		OneShot:        req.UseOneShot,
		MultiShot:      req.UseMultiShot,
		Dynamic:        req.UseDynamic,
		ChainOfThought: req.UseChainOfThought,
	})

	retrieved, err := s.retriever.Search(ctx, question, k, req.Subject)
	if err != nil {
		return nil, err
	}
	payload, qtype := prompt.BuildPayload(base, chainOfThought, req.Subject, question)
	finalPrompt := prompt.Build(question, retrieved, payload)

	answer := s.generate(ctx, finalPrompt, temperature)

	result := &model.AskResult{
		Answer:             answer,
		UsedK:              k,
		Temperature:        temperature,
		Strategy:           base.String(),
		UsedZeroShot:       base == prompt.StrategyZeroShot,
		UsedOneShot:        base == prompt.StrategyOneShot,
		UsedMultiShot:      base == prompt.StrategyMultiShot,
		UsedDynamic:        base == prompt.StrategyDynamic,
		UsedChainOfThought: chainOfThought,
		QuestionType:       string(qtype),
	}
	if s.cfg.IncludeSources {
		result.Sources = make([]model.SourceRef, 0, len(retrieved))
		for _, doc := range retrieved {
			result.Sources = append(result.Sources, model.SourceRef{
				Subject: doc.Meta.Subject,
				Source:  doc.Meta.Source,
				Page:    doc.Meta.Page,
			})
		}
	}
	logutil.GetLogger(ctx).Info("question answered",
		zap.String("strategy", result.Strategy),
		zap.String("question_type", result.QuestionType),
		zap.Int("retrieved", len(retrieved)),
		zap.Int("k", k),
	)
	return result, nil
}

func (s *AnswerService) generate(ctx context.Context, promptText string, temperature float32) string {
	if s.generator == nil {
		return answerNotConfigured
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	answer, err := s.generator.Generate(ctx, promptText, temperature)
	if err != nil {
		logutil.GetLogger(ctx).Error("generation failed", zap.Error(err))
		if errors.Is(err, ai.ErrUnavailable) {
			return answerNotConfigured
		}
		return answerGenerationFailed
	}
	if strings.TrimSpace(answer) == "" {
		return answerGenerationFailed
	}
	return answer
}
