package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	appConfig "github.com/pushp314/nexuschat-backend/internal/config"
	"github.com/pushp314/nexuschat-backend/pkg/utils"
)

const uploadURLExpiry = 15 * time.Minute

func getS3Client() (*s3.Client, error) {
	cfg := appConfig.AppConfig
	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID),
		}, nil
	})

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(r2Resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}

// GenerateUploadURL returns a presigned PUT URL plus the storage key the
// client references from a later message insert. The two-phase contract
// means an abandoned upload never produces a partial message: nothing points
// at the key until the message is sent.
func GenerateUploadURL(c *gin.Context) {
	key := fmt.Sprintf("chat/%s", utils.GenerateID())

	client, err := getS3Client()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to init storage client"})
		return
	}

	presigner := s3.NewPresignClient(client)
	req, err := presigner.PresignPutObject(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(appConfig.AppConfig.R2BucketName),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to presign upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"uploadUrl":  req.URL,
		"storageKey": key,
		"expiresIn":  int(uploadURLExpiry.Seconds()),
	})
}

// ResolveStorageURL maps a storage key to its public URL
func ResolveStorageURL(key string) string {
	cfg := appConfig.AppConfig
	publicURL := cfg.R2PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.R2BucketName)
	}
	return fmt.Sprintf("%s/%s", publicURL, key)
}
