package pictureBed

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"activity-marketplace/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// 对象存储中的目录
const (
	KindActivityImage = "activity_images"
	KindAvatar        = "avatars"
)

// ValidKind 上传目录白名单
func ValidKind(kind string) bool {
	return kind == KindActivityImage || kind == KindAvatar
}

// PictureBed 图片存储：配置了 bucket 时上传到 S3，否则保存到本地目录
type PictureBed struct {
	SaveDir string // 本地保存目录
	BaseURL string // 本地文件访问前缀

	Endpoint        string
	S3BaseURL       string
	Bucket          string
	Region          string
	AccessKey       string
	SecretAccessKey string
	Prefix          string
	UsePathStyle    bool

	s3Once   sync.Once
	s3Err    error
	s3Client *s3.Client
}

func New(c *config.Config) *PictureBed {
	return &PictureBed{
		SaveDir:         c.Upload.LocalDir,
		BaseURL:         c.Upload.BaseURL,
		Endpoint:        c.S3.Endpoint,
		S3BaseURL:       c.S3.BaseURL,
		Bucket:          c.S3.Bucket,
		Region:          c.S3.Region,
		AccessKey:       c.S3.AccessKey,
		SecretAccessKey: c.S3.SecretAccessKey,
		Prefix:          c.S3.Prefix,
		UsePathStyle:    c.S3.UsePathStyle,
	}
}

// UseS3 是否配置了对象存储
func (pb *PictureBed) UseS3() bool {
	return pb.Bucket != ""
}

// InitS3 创建 S3 客户端，只执行一次
func (pb *PictureBed) InitS3(ctx context.Context) error {
	pb.s3Once.Do(func() {
		opts := []func(*awsconfig.LoadOptions) error{}
		if pb.Region != "" {
			opts = append(opts, awsconfig.WithRegion(pb.Region))
		}
		if pb.AccessKey != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(pb.AccessKey, pb.SecretAccessKey, "")))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			pb.s3Err = err
			return
		}
		pb.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
			if pb.Endpoint != "" {
				o.BaseEndpoint = aws.String(pb.Endpoint)
			}
			o.UsePathStyle = pb.UsePathStyle
		})
	})
	return pb.s3Err
}

// objectName 唯一文件名，保留原扩展名
func objectName(kind, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return kind + "/" + uuid.NewString() + ext
}

// Save 保存图片并返回可访问的 URL
func (pb *PictureBed) Save(ctx context.Context, kind, filename, contentType string, r io.Reader) (string, error) {
	name := objectName(kind, filename)
	if pb.UseS3() {
		return pb.saveS3(ctx, name, contentType, r)
	}
	return pb.saveLocal(name, r)
}

// SaveImage 保存表单上传的文件
func (pb *PictureBed) SaveImage(ctx context.Context, kind string, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return pb.Save(ctx, kind, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
}

func (pb *PictureBed) saveLocal(name string, r io.Reader) (string, error) {
	filePath := filepath.Join(pb.SaveDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return "", err
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return strings.TrimRight(pb.BaseURL, "/") + "/" + name, nil
}

func (pb *PictureBed) key(name string) string {
	return strings.TrimLeft(path.Join(strings.Trim(pb.Prefix, "/"), name), "/")
}

func (pb *PictureBed) saveS3(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if err := pb.InitS3(ctx); err != nil {
		return "", fmt.Errorf("初始化 S3 客户端失败: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := pb.key(name)
	uploader := manager.NewUploader(pb.s3Client)
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(pb.Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("上传到 S3 失败: %w", err)
	}
	return pb.publicURL(key), nil
}

// publicURL 上传成功后的访问地址
func (pb *PictureBed) publicURL(key string) string {
	base := strings.TrimRight(pb.S3BaseURL, "/")
	if base == "" {
		base = strings.TrimRight(pb.Endpoint, "/")
	}
	if pb.UsePathStyle {
		return base + "/" + pb.Bucket + "/" + key
	}
	return base + "/" + key
}

var (
	defaultBed *PictureBed
	bedMu      sync.RWMutex
)

func Init() {
	SetDefault(New(config.Get()))
}

func SetDefault(pb *PictureBed) {
	bedMu.Lock()
	defer bedMu.Unlock()
	defaultBed = pb
}

// Default 未 Init 时按当前配置创建
func Default() *PictureBed {
	bedMu.RLock()
	pb := defaultBed
	bedMu.RUnlock()
	if pb != nil {
		return pb
	}
	Init()
	return Default()
}
