package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tr33-app/tr33-backend/internal/llm"
	"github.com/tr33-app/tr33-backend/pkg/apperror"
)

// FallbackFact is shown when the generative service fails. Enrichment
// is non-fatal: the scan flow proceeds with this string instead.
const FallbackFact = "No se pudo cargar un dato interesante en este momento."

// FactService produces a short fun fact for a species. Results are
// cached by scientific name so repeated scans of common trees don't
// burn LLM quota.
type FactService interface {
	FunFact(ctx context.Context, treeName string) (string, error)
}

type factService struct {
	provider    llm.Provider
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewFactService(provider llm.Provider, redisClient *redis.Client, cacheTTL time.Duration) FactService {
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}

	return &factService{
		provider:    provider,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func cacheKey(treeName string) string {
	return fmt.Sprintf("funfact:%s", strings.ToLower(treeName))
}

func (s *factService) FunFact(ctx context.Context, treeName string) (string, error) {
	treeName = strings.TrimSpace(treeName)
	if treeName == "" {
		return "", fmt.Errorf("%w: treeName must not be empty", apperror.ErrInvalidInput)
	}

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey(treeName)).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	if s.provider == nil {
		return FallbackFact, nil
	}

	prompt := fmt.Sprintf("You're an assistant who gives short, interesting, and surprising facts about nature to children. Answer with just the fact, without any introductory text. Give me a fun fact about the tree: %s Answer in Spanish", treeName)

	fact, err := s.provider.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Fun fact generation failed for %q: %v", treeName, err)
		return FallbackFact, nil
	}

	fact = strings.TrimSpace(fact)
	if fact == "" {
		return FallbackFact, nil
	}

	if s.redisClient != nil {
		if err := s.redisClient.SetEx(ctx, cacheKey(treeName), fact, s.cacheTTL).Err(); err != nil {
			log.Printf("Failed to cache fun fact for %q: %v", treeName, err)
		}
	}

	return fact, nil
}
