package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/gridloom/feedplanner/configs"
)

// ArchiveService uploads finalized plan snapshots to Cloudflare R2 Storage.
type ArchiveService struct {
	config cfg.Config
}

func NewArchiveService(cfg cfg.Config) *ArchiveService {
	return &ArchiveService{config: cfg}
}

func (a *ArchiveService) r2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(a.config.R2.AccessKey, a.config.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", a.config.R2.AccountID))
	}), nil
}

// UploadPlan stores the finalized FeedPlan JSON under plans/{userID}/{planID}.json.
func (a *ArchiveService) UploadPlan(ctx context.Context, userID int64, planID string, snapshot []byte) error {
	client, err := a.r2Client(ctx)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("plans/%d/%s.json", userID, planID)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(snapshot),
		ContentType: aws.String("application/json"),
	}

	_, err = client.PutObject(ctx, input)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
