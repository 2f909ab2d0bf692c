package service

import (
	"context"
	"strings"
	"time"

	documentdomain "github.com/smj9504/mj-estimate/internal/document/domain"
	"github.com/smj9504/mj-estimate/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LatestVersion returns the highest version in the chain, or 0 when the
// chain has no members. An empty chain is a valid "no versions yet" answer,
// not an error.
func (s *Service) LatestVersion(ctx context.Context, docType documentdomain.DocumentType, number string) (int, error) {
	versions, err := s.repo.Versions(ctx, docType, strings.TrimSpace(number))
	if err != nil {
		return 0, err
	}
	max := 0
	for _, v := range versions {
		if v > max {
			max = v
		}
	}
	return max, nil
}

// Revise supersedes every prior version of the chain and persists the next
// version as the only latest record. The flag flip and the insert share one
// transaction; concurrent revisions of the same chain are serialized by a
// row lock where the dialect supports it, with the partial unique index as
// the backstop (the loser rolls back and surfaces a conflict).
func (s *Service) Revise(ctx context.Context, req documentdomain.ReviseRequest) (*documentdomain.Document, error) {
	number := strings.TrimSpace(req.Number)

	var revised *documentdomain.Document
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTrx(tx)

		prev, err := repo.FindLatestForUpdate(ctx, req.Type, number)
		if err != nil {
			return err
		}

		versions, err := repo.Versions(ctx, req.Type, number)
		if err != nil {
			return err
		}
		maxVersion := 0
		for _, v := range versions {
			if v > maxVersion {
				maxVersion = v
			}
		}

		if err := repo.MarkAllNotLatest(ctx, req.Type, number); err != nil {
			return err
		}

		next := *prev
		next.ID = s.genID.Generate()
		next.Version = maxVersion + 1
		next.IsLatest = true
		next.Status = documentdomain.DocumentStatusDraft
		next.CreatedAt = time.Now().UTC()
		next.UpdatedAt = time.Now().UTC()

		if err := repo.Create(ctx, &next); err != nil {
			return err
		}

		revised = &next
		return nil
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, documentdomain.ErrAllocationConflict
		}
		return nil, err
	}

	s.metrics.RecordDocumentVersion(ctx, string(req.Type))
	s.log.Info("document revised",
		zap.String("number", revised.Number),
		zap.Int("version", revised.Version),
	)
	return revised, nil
}
