package pictureBed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNoBucket 未配置对象存储时无法预签名
var ErrNoBucket = errors.New("S3 bucket 未配置")

// PresignedUploadRequest 预签名上传请求参数
type PresignedUploadRequest struct {
	Kind        string // activity_images | avatars
	Filename    string // 原始文件名
	ContentType string
	ExpiresIn   int64 // 秒，默认 15 分钟
}

type PresignedUploadResponse struct {
	UploadURL string            `json:"upload_url"`
	FileKey   string            `json:"file_key"`
	FileURL   string            `json:"file_url"`
	ExpiresAt time.Time         `json:"expires_at"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"` // 上传时需携带的 Header
}

// GeneratePresignedUploadURL 前端直接 PUT 到 S3，不经过后端中转
func (pb *PictureBed) GeneratePresignedUploadURL(ctx context.Context, req PresignedUploadRequest) (*PresignedUploadResponse, error) {
	if !pb.UseS3() {
		return nil, ErrNoBucket
	}
	if req.Filename == "" {
		return nil, fmt.Errorf("文件名不能为空")
	}
	if err := pb.InitS3(ctx); err != nil {
		return nil, fmt.Errorf("初始化 S3 客户端失败: %w", err)
	}
	if req.ExpiresIn <= 0 {
		req.ExpiresIn = 900
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := pb.key(objectName(req.Kind, req.Filename))
	presigned, err := s3.NewPresignClient(pb.s3Client).PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Duration(req.ExpiresIn) * time.Second
	})
	if err != nil {
		return nil, fmt.Errorf("生成预签名 URL 失败: %w", err)
	}

	resp := &PresignedUploadResponse{
		UploadURL: presigned.URL,
		FileKey:   key,
		FileURL:   pb.publicURL(key),
		ExpiresAt: time.Now().Add(time.Duration(req.ExpiresIn) * time.Second),
		Method:    presigned.Method,
		Headers:   map[string]string{"Content-Type": contentType},
	}
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			resp.Headers[k] = v[0]
		}
	}
	return resp, nil
}
