package repositories

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	R2Client     *s3.Client
	R2BucketName string
	R2Endpoint   string
)

// InitR2 initializes the R2 client using static credentials and custom endpoint.
func InitR2(accessKey, secretKey, accountID, bucketName, region string) error {
	R2BucketName = bucketName
	R2Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		Region:      region,
	}

	R2Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(R2Endpoint)
		o.UsePathStyle = true
	})

	log.Println("Successfully initialized R2 client")

	return nil
}

// UploadObject stores an image payload under the given key.
func UploadObject(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := R2Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(R2BucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	return err
}

// DeleteObject removes a previously uploaded object. The key is taken from
// the stored image_key column, never parsed out of a URL.
func DeleteObject(ctx context.Context, key string) error {
	_, err := R2Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(R2BucketName),
		Key:    aws.String(key),
	})
	return err
}
