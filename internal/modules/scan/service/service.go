package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tr33-app/tr33-backend/internal/entity"
	"github.com/tr33-app/tr33-backend/internal/modules/scan/dto"
	"github.com/tr33-app/tr33-backend/internal/modules/scan/pipeline"
	"github.com/tr33-app/tr33-backend/internal/modules/scan/repository"
	search "github.com/tr33-app/tr33-backend/internal/modules/search/service"
	"github.com/tr33-app/tr33-backend/internal/plantnet"
	"github.com/tr33-app/tr33-backend/pkg/apperror"
	"github.com/tr33-app/tr33-backend/pkg/storage"
)

// ScanService orchestrates one scan attempt: identify the captured
// image, hold the result server-side, and persist a scored record on
// explicit commit. Identification strictly precedes commit; fact
// enrichment runs independently and never gates either step.
type ScanService interface {
	Identify(ctx context.Context, userID uuid.UUID, image io.Reader, fileName string) (*dto.ScanResultResponse, error)
	Commit(ctx context.Context, userID uuid.UUID, nickname, scanID string) (*dto.CommitResponse, error)
	MyCollection(ctx context.Context, userID uuid.UUID) (*dto.CollectionResponse, error)
}

type scanService struct {
	repo         repository.ScanRepository
	pending      repository.PendingScanStore
	identifier   plantnet.Client
	imageStorage storage.ImageStorage
	search       search.ScanSearchService
	pendingTTL   time.Duration
	uploadFolder string
}

func NewScanService(
	repo repository.ScanRepository,
	pending repository.PendingScanStore,
	identifier plantnet.Client,
	imageStorage storage.ImageStorage,
	searchService search.ScanSearchService,
	pendingTTL time.Duration,
	uploadFolder string,
) ScanService {
	if pendingTTL <= 0 {
		pendingTTL = 30 * time.Minute
	}

	return &scanService{
		repo:         repo,
		pending:      pending,
		identifier:   identifier,
		imageStorage: imageStorage,
		search:       searchService,
		pendingTTL:   pendingTTL,
		uploadFolder: uploadFolder,
	}
}

func (s *scanService) Identify(ctx context.Context, userID uuid.UUID, image io.Reader, fileName string) (*dto.ScanResultResponse, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: no active identity", apperror.ErrMissingState)
	}

	// The image feeds both the recognition call and the storage upload.
	imageBytes, err := io.ReadAll(image)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image", apperror.ErrInvalidInput)
	}
	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("%w: image is empty", apperror.ErrInvalidInput)
	}

	match, err := s.identifier.Identify(ctx, bytes.NewReader(imageBytes), fileName)
	if err != nil {
		return nil, err
	}

	// Losing the photo is not worth failing the whole scan over.
	imageURL := ""
	if s.imageStorage != nil {
		url, err := s.imageStorage.UploadImage(ctx, bytes.NewReader(imageBytes), s.uploadFolder, fileName)
		if err != nil {
			log.Printf("Failed to upload scan image: %v", err)
		} else {
			imageURL = url
		}
	}

	attempt := &pipeline.Attempt{
		ID:             uuid.NewString(),
		UserID:         userID.String(),
		CommonName:     match.CommonName,
		ScientificName: match.ScientificName,
		Description:    match.Family,
		Confidence:     match.Score,
		ImageURL:       imageURL,
		State:          pipeline.StateIdentified,
		CreatedAt:      time.Now(),
	}

	if err := s.pending.Save(ctx, attempt, s.pendingTTL); err != nil {
		return nil, err
	}

	return &dto.ScanResultResponse{
		ScanID:         attempt.ID,
		CommonName:     attempt.CommonName,
		ScientificName: attempt.ScientificName,
		Description:    attempt.Description,
		Confidence:     attempt.Confidence * 100,
		ImageURL:       attempt.ImageURL,
		CarbonScore:    pipeline.CarbonScore(attempt.Confidence),
	}, nil
}

func (s *scanService) Commit(ctx context.Context, userID uuid.UUID, nickname, scanID string) (*dto.CommitResponse, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: no active identity, restart onboarding", apperror.ErrMissingState)
	}

	attempt, err := s.pending.Get(ctx, scanID)
	if err != nil {
		return nil, err
	}

	// An attempt belongs to the identity that scanned it.
	if attempt.UserID != userID.String() {
		return nil, fmt.Errorf("%w: scan not found or expired", apperror.ErrNotFound)
	}

	if err := attempt.Transition(pipeline.StateCommitting); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrConflict, err)
	}

	// Write the committing state back before inserting, so a second
	// commit of the same scan reads it and bounces off the transition
	// check instead of inserting a duplicate row.
	if err := s.pending.Save(ctx, attempt, s.pendingTTL); err != nil {
		return nil, err
	}

	score := pipeline.CarbonScore(attempt.Confidence)
	scan := &entity.ScannedTree{
		UserID:         userID,
		TreeName:       attempt.CommonName,
		ScientificName: attempt.ScientificName,
		CarbonScore:    score,
	}
	if attempt.ImageURL != "" {
		scan.ImageURL = &attempt.ImageURL
	}

	if err := s.repo.Create(ctx, scan); err != nil {
		// Keep the attempt around so commit can be retried without a
		// second identification.
		if terr := attempt.Transition(pipeline.StateCommitFailed); terr == nil {
			if serr := s.pending.Save(ctx, attempt, s.pendingTTL); serr != nil {
				log.Printf("Failed to preserve scan %s for retry: %v", attempt.ID, serr)
			}
		}
		return nil, fmt.Errorf("failed to save scan: %w", err)
	}

	if err := attempt.Transition(pipeline.StateCommitted); err != nil {
		log.Printf("Unexpected state on committed scan %s: %v", attempt.ID, err)
	}
	if err := s.pending.Delete(ctx, attempt.ID); err != nil {
		log.Printf("Failed to drop pending scan %s: %v", attempt.ID, err)
	}

	if s.search != nil {
		go func(scan entity.ScannedTree, nickname string) {
			if err := s.search.IndexScan(&scan, nickname); err != nil {
				log.Printf("Failed to index scan %d: %v", scan.ID, err)
			}
		}(*scan, nickname)
	}

	return &dto.CommitResponse{
		Message:     fmt.Sprintf("Tree saved! You earned %d points.", score),
		CarbonScore: score,
		Scan:        *scan,
	}, nil
}

func (s *scanService) MyCollection(ctx context.Context, userID uuid.UUID) (*dto.CollectionResponse, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("%w: no active identity", apperror.ErrMissingState)
	}

	scans, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, scan := range scans {
		total += scan.CarbonScore
	}

	return &dto.CollectionResponse{
		Scans:       scans,
		TotalPoints: total,
	}, nil
}
