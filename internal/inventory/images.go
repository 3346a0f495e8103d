package inventory

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/cse-motors/motors/internal/config"
)

// Stock image paths used when no photo has been uploaded for a vehicle.
const (
	DefaultImage     = "/images/no-image.png"
	DefaultThumbnail = "/images/no-image-tn.png"
)

// ImageStore uploads vehicle photos to an S3-compatible bucket and hands
// back the public URL stored on the inventory row.
type ImageStore struct {
	client *s3.Client
	bucket string
	cdn    string
}

// NewImageStore configures an S3 client against the endpoint from config.
func NewImageStore(cfg *config.Config) (*ImageStore, error) {
	st := cfg.Storage

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if service == s3.ServiceID && st.Endpoint != "" {
			return aws.Endpoint{
				URL:           st.Endpoint,
				SigningRegion: region,
			}, nil
		}
		return aws.Endpoint{}, fmt.Errorf("unknown endpoint requested")
	})

	awscfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			st.AccessKeyID, st.SecretAccessKey, "",
		)),
		awsconfig.WithRegion(st.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awscfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return &ImageStore{
		client: client,
		bucket: st.Bucket,
		cdn:    fmt.Sprintf("https://%s.%s.cdn.digitaloceanspaces.com", st.Bucket, st.Region),
	}, nil
}

// Upload stores a vehicle photo under a fresh key and returns its URL.
func (s *ImageStore) Upload(ctx context.Context, filename string, body io.Reader, contentType string) (string, error) {
	key := "vehicles/" + uuid.NewString() + path.Ext(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return s.cdn + "/" + key, nil
}
