package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

const reportPrefix = "reports/"

// Options configures the connection to the object store.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// ReportArchive keeps the raw CONAGUA daily reports in an S3-compatible bucket,
// one object per report date. A stored report is never fetched from CONAGUA again.
type ReportArchive struct {
	client *minio.Client
	bucket string
}

// New connects to the object store and creates the bucket if needed.
func New(ctx context.Context, opts Options) (*ReportArchive, error) {
	endpoint := strings.TrimPrefix(opts.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	a := &ReportArchive{client: client, bucket: opts.Bucket}

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := a.ensureBucket(initCtx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *ReportArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("error creating bucket %s: %w", a.bucket, err)
	}
	log.Infof("Created bucket: %s", a.bucket)
	return nil
}

// ObjectName is the key a report date is stored under.
func ObjectName(date time.Time) string {
	return reportPrefix + date.Format("2006-01-02") + ".json"
}

// Get returns the archived report for date. ok is false when none is stored.
func (a *ReportArchive) Get(ctx context.Context, date time.Time) (data []byte, ok bool, err error) {
	obj, err := a.client.GetObject(ctx, a.bucket, ObjectName(date), minio.GetObjectOptions{})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get report %s: %w", ObjectName(date), err)
	}
	defer obj.Close()

	data, err = io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read report %s: %w", ObjectName(date), err)
	}
	return data, true, nil
}

// Put stores the raw report for date, replacing any previous copy.
func (a *ReportArchive) Put(ctx context.Context, date time.Time, data []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, ObjectName(date), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload report %s: %w", ObjectName(date), err)
	}
	log.Debugf("archived %d bytes as %s", len(data), ObjectName(date))
	return nil
}

// Dates lists the report dates present in the archive, in key order.
func (a *ReportArchive) Dates(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: reportPrefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("error listing reports: %w", obj.Err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(obj.Key, reportPrefix), ".json")
		d, err := time.Parse("2006-01-02", name)
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates, nil
}
