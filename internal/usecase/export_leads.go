package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/leadflow/internal/entity"
)

var csvHeader = []string{"id", "name", "email", "company", "title", "website", "linkedin", "notes", "score", "stage", "created_at"}

type ExportLeadsCSVUseCase struct {
	Repo entity.LeadRepositoryInterface
}

func NewExportLeadsCSVUseCase(repo entity.LeadRepositoryInterface) *ExportLeadsCSVUseCase {
	return &ExportLeadsCSVUseCase{Repo: repo}
}

// Execute writes a header and one row per lead, ordered by id. Missing
// optional values are empty cells and newlines in notes become spaces.
func (uc *ExportLeadsCSVUseCase) Execute(ctx context.Context, w io.Writer) (int, error) {
	leads, err := uc.Repo.ListByID(ctx)
	if err != nil {
		return 0, storeError("list leads", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	for _, l := range leads {
		score := ""
		if l.Score != nil {
			score = strconv.Itoa(*l.Score)
		}
		row := []string{
			strconv.FormatInt(l.ID, 10),
			l.Name,
			entity.Value(l.Email),
			entity.Value(l.Company),
			entity.Value(l.Title),
			entity.Value(l.Website),
			entity.Value(l.LinkedIn),
			flattenNotes(entity.Value(l.Notes)),
			score,
			l.Stage,
			l.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := cw.Write(row); err != nil {
			return 0, err
		}
	}

	cw.Flush()
	return len(leads), cw.Error()
}

func flattenNotes(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}
