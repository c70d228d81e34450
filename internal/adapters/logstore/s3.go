package logstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hireloop/evalcore/internal/domain/model"
	"github.com/hireloop/evalcore/pkg/logger"
	"github.com/hireloop/evalcore/pkg/metrics"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3Store implements Store on an S3 bucket.
type S3Store struct {
	client S3API
	bucket string
	log    logger.Logger
}

// NewS3Store creates a store backed by the given bucket.
func NewS3Store(client S3API, bucket string, opts ...S3Option) *S3Store {
	s := &S3Store{
		client: client,
		bucket: bucket,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("logstore")
	}
	return s
}

func (s *S3Store) put(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %w", ErrWrite, key, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("%w: put %s: %w", ErrWrite, key, err)
	}
	return nil
}

// PutInteraction writes one interaction record.
func (s *S3Store) PutInteraction(ctx context.Context, in model.Interaction) error {
	return s.put(ctx, interactionKey(in.CandidateID, in.RequestID, in.Timestamp), in)
}

// PutOutcome writes one outcome record.
func (s *S3Store) PutOutcome(ctx context.Context, out model.Outcome) error {
	return s.put(ctx, outcomeKey(out.CandidateID, out.RequestID, out.Timestamp), out)
}

// PutSummary overwrites the candidate's metrics summary.
func (s *S3Store) PutSummary(ctx context.Context, sum model.Summary) error {
	return s.put(ctx, summaryKey(sum.CandidateID), sum)
}

// ListInteractions fetches every interaction for a candidate, filtered
// to one task when taskID is non-empty.
func (s *S3Store) ListInteractions(ctx context.Context, candidateID, taskID string) ([]model.Interaction, error) {
	var records []model.Interaction
	err := s.scan(ctx, interactionPrefix, candidateID, KindInteraction, func(data []byte) error {
		var in model.Interaction
		if err := json.Unmarshal(data, &in); err != nil {
			return err
		}
		if taskID == "" || in.TaskID == taskID {
			records = append(records, in)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListOutcomes fetches every outcome for a candidate, filtered to one
// task when taskID is non-empty.
func (s *S3Store) ListOutcomes(ctx context.Context, candidateID, taskID string) ([]model.Outcome, error) {
	var records []model.Outcome
	err := s.scan(ctx, outcomePrefix, candidateID, KindOutcome, func(data []byte) error {
		var out model.Outcome
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
		if taskID == "" || out.TaskID == taskID {
			records = append(records, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// scan walks the prefix and hands each matching object's bytes to
// decode. A record that cannot be fetched or decoded is skipped with a
// warning; only the listing itself failing aborts the scan.
func (s *S3Store) scan(ctx context.Context, prefix, candidateID, kind string, decode func([]byte) error) error {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("%w: list %s: %w", ErrList, prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !keyMatchesCandidate(key, candidateID) {
				continue
			}
			data, err := s.fetch(ctx, key)
			if err == nil {
				err = decode(data)
			}
			if err != nil {
				s.log.Warn(ctx, "skipping unreadable record",
					logger.String("key", key),
					logger.Error(err),
				)
				metrics.RecordRecordSkipped(kind)
			}
		}
	}
	return nil
}

func (s *S3Store) fetch(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
