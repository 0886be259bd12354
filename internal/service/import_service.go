package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/soaringlab/flightlog-backend-go/internal/archive"
	"github.com/soaringlab/flightlog-backend-go/internal/csvimport"
	"github.com/soaringlab/flightlog-backend-go/internal/flightstats"
	"github.com/soaringlab/flightlog-backend-go/internal/igc"
	"github.com/soaringlab/flightlog-backend-go/internal/importer"
	"github.com/soaringlab/flightlog-backend-go/internal/models"
	"github.com/soaringlab/flightlog-backend-go/internal/repository"
	"github.com/soaringlab/flightlog-backend-go/internal/scoring"
)

// UploadedFile is one file received from the client, fully materialized
type UploadedFile struct {
	Name string
	Data []byte
}

// ImportService runs the flight import pipeline: archive expansion, track
// and spreadsheet parsing, statistics, fingerprinting, duplicate screening
// and batch commits.
type ImportService struct {
	solver      scoring.Solver
	engine      *flightstats.Engine
	activities  *repository.ActivityRepository
	storage     *StorageService
	zipLimits   archive.Limits
	chunkLimits importer.ChunkLimits
	logger      *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(
	solver scoring.Solver,
	engine *flightstats.Engine,
	activities *repository.ActivityRepository,
	storage *StorageService,
	zipLimits archive.Limits,
	chunkLimits importer.ChunkLimits,
) *ImportService {
	return &ImportService{
		solver:      solver,
		engine:      engine,
		activities:  activities,
		storage:     storage,
		zipLimits:   zipLimits,
		chunkLimits: chunkLimits,
		logger:      zap.L().Named("import"),
	}
}

// inputFile is one parseable file after archive expansion
type inputFile struct {
	path     string
	name     string
	fileType string
	data     []byte
}

// ParseFiles runs the per-file pipeline over an upload batch. Every input
// file (or archive entry) yields at least one result; a failure in one file
// never affects the others.
func (s *ImportService) ParseFiles(ctx context.Context, userID string, files []UploadedFile) []models.ParseFileResult {
	var results []models.ParseFileResult
	var inputs []inputFile

	for _, f := range files {
		switch archive.InferImportFileType(f.Name) {
		case "zip":
			entries, entryErrs, err := archive.ExtractEntries(f.Data, s.zipLimits)
			if err != nil {
				results = append(results, models.ParseFileResult{
					FileName:     f.Name,
					ErrorMessage: fmt.Sprintf("failed to read archive: %v", err),
				})
				continue
			}
			for _, entryErr := range entryErrs {
				results = append(results, models.ParseFileResult{
					FileName:     f.Name,
					ErrorMessage: entryErr.Error(),
				})
			}
			for _, e := range entries {
				inputs = append(inputs, inputFile{path: f.Name + "/" + e.Path, name: e.Name, fileType: e.InferredType, data: e.Data})
			}
		case "igc", "csv":
			inputs = append(inputs, inputFile{path: f.Name, name: f.Name, fileType: archive.InferImportFileType(f.Name), data: f.Data})
		default:
			results = append(results, models.ParseFileResult{
				FileName:     f.Name,
				ErrorMessage: "unsupported file type",
			})
		}
	}

	// IGC tracks first so CSV sidecar rows can find their matching items.
	itemsByBasename := make(map[string]*models.ImportItem)
	var csvInputs []inputFile

	for _, in := range inputs {
		if in.fileType == "csv" {
			csvInputs = append(csvInputs, in)
			continue
		}
		result := s.parseTrack(ctx, userID, in)
		if result.Item != nil {
			itemsByBasename[strings.ToLower(path.Base(in.name))] = result.Item
		}
		results = append(results, result)
	}

	for _, in := range csvInputs {
		results = append(results, s.parseSpreadsheet(userID, in, itemsByBasename)...)
	}

	return results
}

// parseTrack handles one IGC file end to end
func (s *ImportService) parseTrack(ctx context.Context, userID string, in inputFile) models.ParseFileResult {
	result := models.ParseFileResult{FileName: in.name, FilePath: in.path}

	track, parsedContent, err := igc.Parse(string(in.data))
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("failed to parse track: %v", err)
		return result
	}
	if track.CompetitionClass == "" {
		track.CompetitionClass = igc.CompetitionClass(parsedContent)
	}

	sc, err := s.solver.Solve(ctx, track)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("scoring failed: %v", err)
		return result
	}

	stats := s.engine.Compute(track, sc)
	fingerprint := importer.Fingerprint(parsedContent)

	upload, err := s.storage.Store(userID, in.name, in.data)
	if err != nil {
		result.ErrorMessage = fmt.Sprintf("failed to store file: %v", err)
		return result
	}

	result.Item = &models.ImportItem{
		LocalID:      uuid.NewString(),
		Type:         "igc",
		FileName:     in.name,
		FilePath:     in.path,
		Fingerprint:  fingerprint,
		FileURL:      upload.FileURL,
		FlightStats:  stats,
		DedupeStatus: models.DedupeUnclassified,
	}

	s.logger.Info("parsed track",
		zap.String("file", in.path),
		zap.String("date", stats.Date),
		zap.Float64("distance", stats.RouteDistance),
	)
	return result
}

// parseSpreadsheet handles one CSV file. Rows naming an IGC file from the
// same batch enrich that track's statistics; the rest become standalone
// items carrying the row's own statistics record.
func (s *ImportService) parseSpreadsheet(userID string, in inputFile, itemsByBasename map[string]*models.ImportItem) []models.ParseFileResult {
	rows, rowErrs := csvimport.Normalize(string(in.data), in.name)

	var results []models.ParseFileResult
	fileResult := models.ParseFileResult{FileName: in.name, FilePath: in.path, RowErrors: rowErrs}

	var fileURL string
	for _, row := range rows {
		if row.IGCFileName != "" {
			if item, ok := itemsByBasename[strings.ToLower(row.IGCFileName)]; ok {
				merged, mismatches := importer.MergeCSVIntoIGC(item.FlightStats, row.Stats)
				if len(mismatches) > 0 {
					fileResult.RowErrors = append(fileResult.RowErrors, fmt.Sprintf(
						"Row %d (%s): %s", row.RowNumber, row.IGCFileName, strings.Join(mismatches, ", ")))
					continue
				}
				item.FlightStats = merged
				continue
			}
		}

		// standalone row, store the source file once for reference
		if fileURL == "" {
			upload, err := s.storage.Store(userID, in.name, in.data)
			if err != nil {
				fileResult.RowErrors = append(fileResult.RowErrors, fmt.Sprintf("failed to store file: %v", err))
				continue
			}
			fileURL = upload.FileURL
		}

		results = append(results, models.ParseFileResult{
			FileName: in.name,
			FilePath: fmt.Sprintf("%s: row %d", in.path, row.RowNumber),
			Item: &models.ImportItem{
				LocalID:      uuid.NewString(),
				Type:         "csv",
				FileName:     in.name,
				FilePath:     in.path,
				FileURL:      fileURL,
				FlightStats:  row.Stats,
				DedupeStatus: models.DedupeUnclassified,
			},
		})
	}

	if len(fileResult.RowErrors) > 0 || len(results) == 0 {
		results = append([]models.ParseFileResult{fileResult}, results...)
	}
	return results
}

// Preview screens pending items against stored activities. An exact
// fingerprint match is a duplicate; an activity on the same date with a
// compatible distance is a possible duplicate.
func (s *ImportService) Preview(req *models.PreviewRequest) (*models.PreviewResponse, error) {
	resp := &models.PreviewResponse{}

	for _, item := range req.Items {
		verdict, err := s.screen(req.UserID, item)
		if err != nil {
			return nil, err
		}
		resp.Items = append(resp.Items, verdict)
	}

	return resp, nil
}

func (s *ImportService) screen(userID string, item models.ImportItem) (models.PreviewClassification, error) {
	verdict := models.PreviewClassification{LocalID: item.LocalID, Classification: models.DedupeReady}

	if item.Fingerprint != "" {
		exists, err := s.activities.ExistsByFingerprint(userID, item.Fingerprint)
		if err != nil {
			return verdict, err
		}
		if exists {
			verdict.Classification = models.DedupeDuplicate
			verdict.Explanation = "a flight with this exact track was already imported"
			return verdict, nil
		}
	}

	if item.FlightStats == nil || item.FlightStats.Date == "" {
		return verdict, nil
	}

	sameDay, err := s.activities.GetByFlightDate(userID, item.FlightStats.Date)
	if err != nil {
		return verdict, err
	}
	match, found := lo.Find(sameDay, func(a models.Activity) bool {
		return a.Stats != nil && item.FlightStats.RouteDistance > 0 &&
			importer.DistancesCompatible(item.FlightStats.RouteDistance, a.Stats.RouteDistance)
	})
	if found {
		verdict.Classification = models.DedupePossibleDuplicate
		verdict.Explanation = fmt.Sprintf(
			"an existing flight on %s has a similar distance (%.1f km)",
			item.FlightStats.Date, match.Stats.RouteDistance)
	}

	return verdict, nil
}

// Commit persists previewed items. Items are processed in submission order,
// in payload-sized chunks; each chunk is re-screened so a duplicate created
// between preview and commit is still skipped. Possible duplicates are
// skipped unless explicitly forced.
func (s *ImportService) Commit(req *models.CommitRequest) (*models.CommitResponse, error) {
	resp := &models.CommitResponse{SessionID: req.SessionID}
	if resp.SessionID == "" {
		resp.SessionID = uuid.NewString()
	}

	forced := make(map[string]bool, len(req.ForcePossibleDuplicateIDs))
	for _, id := range req.ForcePossibleDuplicateIDs {
		forced[id] = true
	}

	for _, chunk := range importer.Chunk(req.Items, s.chunkLimits) {
		preview, err := s.Preview(&models.PreviewRequest{UserID: req.UserID, Items: chunk})
		if err != nil {
			return nil, err
		}

		for _, item := range importer.Classify(chunk, preview) {
			result := s.commitItem(req.UserID, item, forced[item.LocalID], &resp.Counts)
			resp.Items = append(resp.Items, result)
		}
	}

	s.logger.Info("commit finished",
		zap.String("sessionId", resp.SessionID),
		zap.Int("imported", resp.Counts.Imported),
		zap.Int("duplicateSkipped", resp.Counts.DuplicateSkipped),
		zap.Int("possibleSkipped", resp.Counts.PossibleSkipped),
		zap.Int("errors", resp.Counts.Errors),
	)
	return resp, nil
}

func (s *ImportService) commitItem(userID string, item models.ImportItem, force bool, counts *models.ImportCounts) models.CommitItemResult {
	result := models.CommitItemResult{LocalID: item.LocalID, Status: item.DedupeStatus, Explanation: item.DuplicateExplanation}

	switch item.DedupeStatus {
	case models.DedupeDuplicate:
		counts.DuplicateSkipped++
		return result
	case models.DedupePossibleDuplicate:
		if !force {
			counts.PossibleSkipped++
			return result
		}
	case models.DedupeError:
		counts.Errors++
		return result
	}

	flightDate := ""
	if item.FlightStats != nil {
		flightDate = item.FlightStats.Date
	}

	id, err := s.activities.Create(&models.Activity{
		UserID:      userID,
		Fingerprint: item.Fingerprint,
		FlightDate:  flightDate,
		FileURL:     item.FileURL,
		Stats:       item.FlightStats,
	})
	if err != nil {
		counts.Errors++
		result.Status = models.DedupeError
		result.Explanation = "failed to store activity"
		s.logger.Error("failed to store activity", zap.String("localId", item.LocalID), zap.Error(err))
		return result
	}

	counts.Imported++
	result.Status = models.DedupeReady
	result.ActivityID = id
	return result
}
