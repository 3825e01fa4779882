// Package receipts archives a JSON copy of every settled transfer in an
// S3-compatible bucket.
package receipts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Receipt is the archived record of one transfer.
type Receipt struct {
	TransactionID string    `json:"transactionId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Archive interface {
	Store(ctx context.Context, r Receipt) error
}

type nopArchive struct{}

// Nop returns an Archive that drops receipts.
func Nop() Archive { return nopArchive{} }

func (nopArchive) Store(context.Context, Receipt) error { return nil }

// Settings locate the bucket. Endpoint may point at MinIO or another
// S3-compatible service; empty uses AWS.
type Settings struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// seams for tests
var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Archive struct {
	client objectPutter
	bucket string
}

func NewS3Archive(ctx context.Context, s Settings) (*S3Archive, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.AccessKey, s.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Archive{client: client, bucket: s.Bucket}, nil
}

// Key returns the object key for r, bucketed by settlement date.
func Key(r Receipt) string {
	d := r.CreatedAt.UTC()
	return fmt.Sprintf("receipts/%d/%02d/%02d/%s.json", d.Year(), d.Month(), d.Day(), r.TransactionID)
}

func (a *S3Archive) Store(ctx context.Context, r Receipt) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode receipt: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(r)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put receipt: %w", err)
	}
	return nil
}
