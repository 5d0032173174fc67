package services

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/netx"
	"github.com/dmitrijs2005/gophreach/internal/server/config"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportResult points at an uploaded workbook snapshot.
type ExportResult struct {
	Key       string         `json:"key"`
	URL       string         `json:"url"`
	ExpiresAt time.Time      `json:"expires_at"`
	Rows      map[string]int `json:"rows"`
}

// ExportService snapshots every table into an xlsx workbook and uploads it
// to object storage.
type ExportService struct {
	clock
	repomanager repomanager.RepositoryManager
	config      *config.Config
	httpClient  *http.Client
	logger      logging.Logger
}

func NewExportService(m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *ExportService {
	return &ExportService{
		clock:       defaultClock(),
		repomanager: m,
		config:      cfg,
		httpClient:  &http.Client{Timeout: time.Minute},
		logger:      logger,
	}
}

func (s *ExportService) storageKey() string {
	d := s.now()
	return fmt.Sprintf("exports/%d/%d/%d/%v.xlsx", d.Year(), d.Month(), d.Day(), s.newID())
}

func (s *ExportService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})
	return newS3PresignClient(client), nil
}

// Build renders the current contents of every table as a workbook. Password
// hashes are blanked.
func (s *ExportService) Build(ctx context.Context) ([]byte, map[string]int, error) {
	wb, err := store.OpenWorkbook("")
	if err != nil {
		return nil, nil, err
	}
	defer wb.Close()

	counts := make(map[string]int, len(store.Tables))
	for _, t := range store.Tables {
		rows, err := s.repomanager.Store().Scan(ctx, t)
		if err != nil {
			return nil, nil, err
		}
		if t == store.Users {
			rows = redact(rows, passwordColumn())
		}
		if err := wb.Load(ctx, t, rows); err != nil {
			return nil, nil, err
		}
		counts[string(t)] = len(rows)
	}

	var buf bytes.Buffer
	if _, err := wb.WriteTo(&buf); err != nil {
		return nil, nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), counts, nil
}

// Export uploads a workbook snapshot through a presigned PUT and returns a
// presigned GET URL for it.
func (s *ExportService) Export(ctx context.Context, id *models.Identity) (*ExportResult, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	body, counts, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := s.storageKey()
	contentType := netx.XLSXContentType

	put, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}
	if err := netx.UploadPresigned(ctx, s.httpClient, put.URL, body, contentType); err != nil {
		return nil, err
	}

	get, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("error presigning download: %w", err)
	}

	s.logger.Info(ctx, "workbook exported", "key", key, "bytes", len(body), "by", id.UserID)
	return &ExportResult{Key: key, URL: get.URL, ExpiresAt: s.now().Add(presignExpiry), Rows: counts}, nil
}

func passwordColumn() int {
	for i, h := range store.Headers[store.Users] {
		if h == "password_hash" {
			return i
		}
	}
	return -1
}

func redact(rows []store.Row, col int) []store.Row {
	out := make([]store.Row, len(rows))
	for i, r := range rows {
		cells := append([]string(nil), r.Cells...)
		if col >= 0 && col < len(cells) {
			cells[col] = ""
		}
		out[i] = store.Row{Address: r.Address, Cells: cells}
	}
	return out
}
