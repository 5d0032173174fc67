package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// stubPresign replaces the S3 seams; PUT URLs point at putURL.
func stubPresign(t *testing.T, putURL string) (gotKeys *[]string) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	keys := []string{}
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		require.NotNil(t, opts.BaseEndpoint)
		assert.True(t, opts.UsePathStyle)
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, "exports", *in.Bucket)
		keys = append(keys, *in.Key)
		return &v4.PresignedHTTPRequest{URL: putURL, Method: http.MethodPut}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://s3.example/get/" + *in.Key, Method: http.MethodGet}, nil
	}
	return &keys
}

func seedExportData(t *testing.T, e *env) {
	t.Helper()
	e.seedBase(t, baseRecords(3)...)
	e.seedContact(t, models.Contact{ID: "c-1", NationalID: "11", FullName: "Lucía", State: models.StateNew})
	e.seedUser(t, models.User{ID: "u1", Name: "U", Email: "u@example.org", Role: models.RoleAdmin, Active: true}, "pw")
}

func TestExport_UploadsWorkbook(t *testing.T) {
	e := newEnv(t)
	seedExportData(t, e)

	var uploaded []byte
	var contentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		contentType = r.Header.Get("Content-Type")
		uploaded, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()
	keys := stubPresign(t, ts.URL)

	res, err := e.exports.Export(context.Background(), admin)
	require.NoError(t, err)
	require.Len(t, *keys, 1)
	assert.Equal(t, (*keys)[0], res.Key)
	assert.True(t, strings.HasPrefix(res.Key, "exports/2026/2/1/"))
	assert.True(t, strings.HasSuffix(res.Key, ".xlsx"))
	assert.Equal(t, "https://s3.example/get/"+res.Key, res.URL)
	assert.Equal(t, fixedNow.Add(presignExpiry), res.ExpiresAt)
	assert.Equal(t, 3, res.Rows[string(store.HistoricalBase)])
	assert.Equal(t, 1, res.Rows[string(store.Users)])
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", contentType)

	f, err := excelize.OpenReader(bytes.NewReader(uploaded))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(string(store.Users))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, store.Headers[store.Users], rows[0])
	assert.Equal(t, "u@example.org", rows[1][2])
	for _, cell := range rows[1] {
		assert.False(t, strings.HasPrefix(cell, "$2"), "password hash leaked")
	}

	base, err := f.GetRows(string(store.HistoricalBase))
	require.NoError(t, err)
	assert.Len(t, base, 4)
}

func TestExport_Errors(t *testing.T) {
	t.Run("admin only", func(t *testing.T) {
		_, err := newEnv(t).exports.Export(context.Background(), carla)
		assert.ErrorIs(t, err, common.ErrForbidden)
	})

	t.Run("upload rejected", func(t *testing.T) {
		e := newEnv(t)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "AccessDenied", http.StatusForbidden)
		}))
		defer ts.Close()
		stubPresign(t, ts.URL)

		_, err := e.exports.Export(context.Background(), admin)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "AccessDenied")
	})

	t.Run("presign failure", func(t *testing.T) {
		e := newEnv(t)
		stubPresign(t, "http://unused")
		presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("no credentials")
		}
		_, err := e.exports.Export(context.Background(), admin)
		assert.ErrorContains(t, err, "no credentials")
	})

	t.Run("store failure", func(t *testing.T) {
		fs := &failingScanStore{Store: store.NewMemoryStore()}
		e := newEnvWith(t, fs, nil)
		_, _, err := e.exports.Build(context.Background())
		assert.ErrorIs(t, err, common.ErrStore)
	})
}

type failingScanStore struct{ store.Store }

func (failingScanStore) Scan(context.Context, store.Table) ([]store.Row, error) {
	return nil, common.StoreError("scan", errors.New("unavailable"))
}
