package service

import (
	"context"
	"edu_core_backend/internal/model"
	"edu_core_backend/internal/repository"
	"edu_core_backend/internal/util"
	"edu_core_backend/pkg/monitoring"
	"fmt"
	"io"
	"path/filepath"

	"go.uber.org/zap"
)

// UploadResult Filename 是生成的存储名，原始文件名只保存在元数据里
type UploadResult struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	Path             string `json:"path"`
	OriginalFilename string `json:"original_filename"`
}

type FileService struct {
	Repo     *repository.FileRepository
	Provider StorageProvider
	MaxBytes int64
	log      *zap.Logger
}

func NewFileService(repo *repository.FileRepository, provider StorageProvider, maxUploadMB int64, log *zap.Logger) *FileService {
	return &FileService{
		Repo:     repo,
		Provider: provider,
		MaxBytes: maxUploadMB << 20,
		log:      log.With(zap.String("service", "file"), zap.String("provider", provider.Name())),
	}
}

// Upload 以随机名写入存储，再落库元数据；落库失败时删除已写入的文件
func (s *FileService) Upload(ctx context.Context, ownerID, filename string, r io.Reader, size int64, contentType string) (*UploadResult, error) {
	original := filepath.Base(filename)
	if original == "" || original == "." || original == string(filepath.Separator) {
		return nil, util.ValidationError("file name is required")
	}
	if s.MaxBytes > 0 && size > s.MaxBytes {
		return nil, util.ValidationError(fmt.Sprintf("file exceeds %d MB limit", s.MaxBytes>>20))
	}

	if contentType == "" || contentType == util.MimeOctetStream {
		sniffed, rr, err := util.SniffContentType(r)
		if err != nil {
			return nil, util.StorageError("read upload", err)
		}
		contentType, r = sniffed, rr
	}

	// 客户端断开不应中断写入与落库，否则会留下没有元数据的文件
	ctx = context.WithoutCancel(ctx)

	name := util.StorageName(original)
	counter := &countingReader{r: r}
	stored, err := s.Provider.Save(ctx, name, counter, size, contentType)
	if err != nil {
		return nil, util.StorageError("save file", err)
	}

	written := counter.n
	f := &model.UserFile{
		OwnerID:          ownerID,
		OriginalFilename: original,
		StoredPath:       stored,
		ContentType:      &contentType,
		Size:             &written,
	}
	if err := s.Repo.Create(ctx, f); err != nil {
		if derr := s.Provider.Delete(ctx, name); derr != nil {
			s.log.Error("orphaned upload after metadata failure", zap.String("stored", stored), zap.Error(derr))
		}
		return nil, util.StorageError("save file metadata", err)
	}

	monitoring.UploadBytes.WithLabelValues(s.Provider.Name()).Add(float64(written))
	s.log.Info("file uploaded", zap.String("file_id", f.ID), zap.Int64("size", written))
	return &UploadResult{ID: f.ID, Filename: name, Path: stored, OriginalFilename: original}, nil
}

func (s *FileService) List(ctx context.Context, ownerID string) ([]model.UserFile, error) {
	fs, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, util.StorageError("list files", err)
	}
	return fs, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
