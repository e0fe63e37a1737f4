package handler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/entity"
	"github.com/yohan201609-oss/El-ventorrillo/internal/domain/repository"
	"github.com/yohan201609-oss/El-ventorrillo/internal/infrastructure/storage"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/errors"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/logger"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/response"
	"github.com/yohan201609-oss/El-ventorrillo/pkg/utils"
)

type FileHandler struct {
	storageClient    *storage.CloudStorageClient
	fileMetadataRepo repository.FileMetadataRepository
}

var fileHandler *FileHandler

func NewFileHandler(storageClient *storage.CloudStorageClient, fileMetadataRepo repository.FileMetadataRepository) *FileHandler {
	return &FileHandler{
		storageClient:    storageClient,
		fileMetadataRepo: fileMetadataRepo,
	}
}

func SetupFileHandler(storageClient *storage.CloudStorageClient, fileMetadataRepo repository.FileMetadataRepository) {
	fileHandler = NewFileHandler(storageClient, fileMetadataRepo)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

func getUserIDFromContext(c echo.Context) string {
	if uid, ok := c.Get("uid").(string); ok {
		return uid
	}
	return ""
}

// UploadImages accepts up to five image files under the "files" form
// key and returns the stored URLs. Oversized or non-image files are
// reported per file without failing the whole batch.
func (h *FileHandler) UploadImages(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	if err := c.Request().ParseMultipartForm(storage.MaxImageSize * storage.MaxImagesPerProduct); err != nil {
		return response.Error(c, errors.BadRequest("Failed to parse form", err))
	}

	files := c.Request().MultipartForm.File["files"]
	if len(files) == 0 {
		return response.Error(c, errors.BadRequest("No files provided", nil))
	}
	if len(files) > storage.MaxImagesPerProduct {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("Too many files. Maximum %d allowed", storage.MaxImagesPerProduct), nil))
	}

	var uploaded []map[string]interface{}
	var failed []string

	for _, fileHeader := range files {
		if fileHeader.Size > storage.MaxImageSize {
			failed = append(failed, fmt.Sprintf("%s: file too large", fileHeader.Filename))
			continue
		}

		contentType := fileHeader.Header.Get("Content-Type")
		if !storage.IsAllowedImageType(contentType) {
			failed = append(failed, fmt.Sprintf("%s: not an image", fileHeader.Filename))
			continue
		}

		src, err := fileHeader.Open()
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: failed to open", fileHeader.Filename))
			continue
		}

		url, objectName, err := h.storageClient.UploadImage(c.Request().Context(), src, contentType, "product-images")
		src.Close()
		if err != nil {
			logger.Error("Upload failed for %s: %v", fileHeader.Filename, err)
			failed = append(failed, fmt.Sprintf("%s: upload failed", fileHeader.Filename))
			continue
		}

		metadata := &entity.FileMetadata{
			ID:         uuid.New().String(),
			URL:        url,
			ObjectName: objectName,
			UploadedBy: userID,
			Filename:   fileHeader.Filename,
			FileType:   contentType,
			FileSize:   fileHeader.Size,
			CreatedAt:  time.Now(),
		}

		if err := h.fileMetadataRepo.Create(c.Request().Context(), metadata); err != nil {
			logger.Error("Failed to save metadata for %s: %v", fileHeader.Filename, err)
			// The file is already stored; keep going.
		}

		uploaded = append(uploaded, map[string]interface{}{
			"id":       metadata.ID,
			"url":      url,
			"filename": fileHeader.Filename,
			"size":     fileHeader.Size,
		})
	}

	if len(uploaded) == 0 {
		return response.Error(c, errors.BadRequest("No files could be uploaded", nil))
	}

	result := map[string]interface{}{
		"uploaded_count": len(uploaded),
		"images":         uploaded,
	}
	if len(failed) > 0 {
		result["errors"] = failed
	}

	return response.Success(c, result)
}

func (h *FileHandler) ListUserFiles(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	params := utils.GetPaginationParams(c)

	files, total, err := h.fileMetadataRepo.GetByUploader(c.Request().Context(), userID, params.PageSize, params.Offset)
	if err != nil {
		logger.Error("Failed to list files for %s: %v", userID, err)
		return response.Error(c, err)
	}

	return response.Paginated(c, files, total, params.Page, params.PageSize)
}

func (h *FileHandler) DeleteFile(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	fileID := c.Param("id")
	if fileID == "" {
		return response.Error(c, errors.BadRequest("File ID is required", nil))
	}

	metadata, err := h.fileMetadataRepo.GetByID(c.Request().Context(), fileID)
	if err != nil {
		return response.Error(c, err)
	}

	if metadata.UploadedBy != userID {
		return response.Error(c, errors.Forbidden("You can only delete your own uploads", nil))
	}

	if err := h.storageClient.DeleteFile(c.Request().Context(), metadata.URL); err != nil {
		logger.Error("Failed to delete file from storage: %v", err)
		return response.Error(c, errors.Internal("Failed to delete file", err))
	}

	if err := h.fileMetadataRepo.Delete(c.Request().Context(), fileID); err != nil {
		logger.Error("Failed to delete file metadata: %v", err)
	}

	return response.Success(c, map[string]string{
		"message": "File deleted",
	})
}
