package handlers

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/SscSPs/knowledge_hub/internal/core/domain"
	portssvc "github.com/SscSPs/knowledge_hub/internal/core/ports/services"
	"github.com/SscSPs/knowledge_hub/internal/dto"
	"github.com/SscSPs/knowledge_hub/internal/middleware"
	"github.com/SscSPs/knowledge_hub/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// storageHandler exposes the namespace manager over HTTP.
type storageHandler struct {
	namespace portssvc.NamespaceManager
}

func newStorageHandler(ns portssvc.NamespaceManager) *storageHandler {
	return &storageHandler{namespace: ns}
}

func registerStorageRoutes(rg gin.IRoutes, namespace portssvc.NamespaceManager) {
	h := newStorageHandler(namespace)

	rg.POST("/create-bucket/", h.createBucket)
	rg.POST("/create-folder/", h.createFolder)
	rg.POST("/fileupload/", h.uploadFile)
	rg.POST("/fileuploads/", h.uploadFiles)
	rg.GET("/filereview/", h.listFiles)
	rg.DELETE("/filedelete/", h.deleteFile)
	rg.DELETE("/filesdelete/", h.deleteFiles)
	rg.DELETE("/folderdelete/", h.deleteFolder)
	rg.DELETE("/bucketdelete/", h.deleteBucket)
}

// bindParams fills req from the query string, then from a JSON body when
// one is sent, and validates the result.
func bindParams(c *gin.Context, req any) error {
	if err := c.ShouldBindQuery(req); err != nil {
		return validation.Describe(err)
	}
	if c.Request.ContentLength != 0 && c.ContentType() == binding.MIMEJSON {
		if err := c.ShouldBindJSON(req); err != nil {
			return validation.Describe(err)
		}
	}
	return validation.Struct(req)
}

func openUpload(fh *multipart.FileHeader) (domain.FileUpload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.FileUpload{}, nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	return domain.FileUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}, f, nil
}

// createBucket godoc
// @Summary Create a bucket
// @Tags storage
// @Accept json
// @Produce json
// @Param request body dto.BucketRequest true "Bucket"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse "Bucket already exists"
// @Failure 500 {object} ErrorResponse
// @Router /create-bucket/ [post]
func (h *storageHandler) createBucket(c *gin.Context) {
	var req dto.BucketRequest
	if err := bindParams(c, &req); err != nil {
		respondError(c, err, "Error creating bucket")
		return
	}

	if err := h.namespace.CreateBucket(c.Request.Context(), req.BucketName); err != nil {
		respondError(c, err, "Error creating bucket")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Bucket '%s' created successfully!", req.BucketName),
	})
}

// createFolder godoc
// @Summary Create a folder
// @Description Writes a zero-length folder marker. Creating an existing folder is not an error.
// @Tags storage
// @Accept json
// @Produce json
// @Param request body dto.FolderRequest true "Folder"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Bucket does not exist"
// @Failure 500 {object} ErrorResponse
// @Router /create-folder/ [post]
func (h *storageHandler) createFolder(c *gin.Context) {
	var req dto.FolderRequest
	if err := bindParams(c, &req); err != nil {
		respondError(c, err, "Error creating folder")
		return
	}

	if err := h.namespace.CreateFolder(c.Request.Context(), req.BucketName, req.FolderName); err != nil {
		respondError(c, err, "Error creating folder")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Folder '%s' created successfully in bucket '%s'!",
			domain.NormalizeFolder(req.FolderName), req.BucketName),
	})
}

// uploadFile godoc
// @Summary Upload a file
// @Tags storage
// @Accept multipart/form-data
// @Produce json
// @Param bucket_name formData string true "Bucket"
// @Param folder_name formData string false "Folder"
// @Param file formData file true "File"
// @Success 200 {object} dto.UploadFileResponse
// @Failure 400 {object} ErrorResponse "File type not allowed"
// @Failure 404 {object} ErrorResponse "Bucket does not exist"
// @Failure 500 {object} ErrorResponse
// @Router /fileupload/ [post]
func (h *storageHandler) uploadFile(c *gin.Context) {
	var form dto.UploadFileForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, validation.Describe(err), "Error uploading file")
		return
	}

	upload, f, err := openUpload(form.File)
	if err != nil {
		respondError(c, err, "Error uploading file")
		return
	}
	defer f.Close()

	result, err := h.namespace.PutFile(c.Request.Context(), form.BucketName, form.FolderName, upload)
	if err != nil {
		respondError(c, err, "Error uploading file")
		return
	}

	c.JSON(http.StatusOK, dto.UploadFileResponse{
		Message: fmt.Sprintf("File '%s' uploaded successfully to folder '%s' in bucket '%s'!",
			result.Filename, domain.NormalizeFolder(form.FolderName), form.BucketName),
		ETag: result.ETag,
	})
}

// uploadFiles godoc
// @Summary Upload several files
// @Description All file types are checked before anything is uploaded. Uploads then run in order and stop at the first failure.
// @Tags storage
// @Accept multipart/form-data
// @Produce json
// @Param bucket_name formData string true "Bucket"
// @Param folder_name formData string false "Folder"
// @Param files formData file true "Files"
// @Success 200 {object} dto.UploadFilesResponse
// @Failure 400 {object} ErrorResponse "File type not allowed"
// @Failure 404 {object} ErrorResponse "Bucket does not exist"
// @Failure 500 {object} BatchErrorResponse
// @Router /fileuploads/ [post]
func (h *storageHandler) uploadFiles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var form dto.UploadFilesForm
	if err := c.ShouldBind(&form); err != nil {
		respondError(c, validation.Describe(err), "Error uploading files")
		return
	}

	uploads := make([]domain.FileUpload, 0, len(form.Files))
	for _, fh := range form.Files {
		upload, f, err := openUpload(fh)
		if err != nil {
			respondError(c, err, "Error uploading files")
			return
		}
		defer f.Close()
		uploads = append(uploads, upload)
	}

	results, err := h.namespace.PutFiles(c.Request.Context(), form.BucketName, form.FolderName, uploads)
	if err != nil {
		if len(results) > 0 {
			logger.Warn("Batch upload stopped part way", slog.Int("uploaded", len(results)))
		}
		respondError(c, err, "Error uploading files")
		return
	}

	c.JSON(http.StatusOK, dto.UploadFilesResponse{
		Message: fmt.Sprintf("%d files uploaded successfully to folder '%s' in bucket '%s'!",
			len(results), domain.NormalizeFolder(form.FolderName), form.BucketName),
		UploadedFiles: dto.ToUploadedFilesResponse(results),
	})
}

// listFiles godoc
// @Summary List files in a folder
// @Description Lists every file under the folder, recursively. An empty folder yields an empty list.
// @Tags storage
// @Produce json
// @Param bucket_name query string true "Bucket"
// @Param folder_name query string false "Folder"
// @Success 200 {object} dto.ListFilesResponse
// @Failure 404 {object} ErrorResponse "Bucket does not exist"
// @Failure 500 {object} ErrorResponse
// @Router /filereview/ [get]
func (h *storageHandler) listFiles(c *gin.Context) {
	var params dto.ListFilesParams
	if err := bindParams(c, &params); err != nil {
		respondError(c, err, "Error retrieving files")
		return
	}

	listing, err := h.namespace.ListFiles(c.Request.Context(), params.BucketName, params.FolderName)
	if err != nil {
		respondError(c, err, "Error retrieving files")
		return
	}

	msg := fmt.Sprintf("Files retrieved successfully from folder '%s' in bucket '%s'.", listing.Folder, listing.Bucket)
	if listing.IsEmpty() {
		msg = fmt.Sprintf("No files found in folder '%s' of bucket '%s'.", listing.Folder, listing.Bucket)
	}
	c.JSON(http.StatusOK, dto.ListFilesResponse{
		Message: msg,
		Files:   dto.ToFileInfoResponses(listing.Files),
	})
}

// deleteFile godoc
// @Summary Delete a file
// @Description Deleting a file that does not exist succeeds.
// @Tags storage
// @Produce json
// @Param bucket_name query string true "Bucket"
// @Param folder_name query string false "Folder"
// @Param filename query string true "File name"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse "Bucket does not exist"
// @Failure 500 {object} ErrorResponse
// @Router /filedelete/ [delete]
func (h *storageHandler) deleteFile(c *gin.Context) {
	var params dto.DeleteFileParams
	if err := bindParams(c, &params); err != nil {
		respondError(c, err, "Error deleting file")
		return
	}

	if err := h.namespace.DeleteFile(c.Request.Context(), params.BucketName, params.FolderName, params.Filename); err != nil {
		respondError(c, err, "Error deleting file")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("File '%s' deleted successfully from folder '%s' in bucket '%s'!",
			params.Filename, domain.NormalizeFolder(params.FolderName), params.BucketName),
	})
}

// deleteFiles godoc
// @Summary Delete several files
// @Description Deletes in order and stops at the first failure. Files already deleted stay deleted.
// @Tags storage
// @Accept json
// @Produce json
// @Param request body dto.DeleteFilesRequest true "Files"
// @Success 200 {object} dto.DeleteFilesResponse
// @Failure 404 {object} ErrorResponse "Bucket does not exist"
// @Failure 500 {object} BatchErrorResponse
// @Router /filesdelete/ [delete]
func (h *storageHandler) deleteFiles(c *gin.Context) {
	var req dto.DeleteFilesRequest
	if err := bindParams(c, &req); err != nil {
		respondError(c, err, "Error deleting files")
		return
	}

	result, err := h.namespace.DeleteFiles(c.Request.Context(), req.BucketName, req.FolderName, req.Filenames)
	if err != nil {
		respondError(c, err, "Error deleting files")
		return
	}

	c.JSON(http.StatusOK, dto.DeleteFilesResponse{
		Message: fmt.Sprintf("%d files deleted successfully from folder '%s' in bucket '%s'.",
			result.DeletedCount, domain.NormalizeFolder(req.FolderName), req.BucketName),
		DeletedCount: result.DeletedCount,
		DeletedFiles: result.Deleted,
	})
}

// deleteFolder godoc
// @Summary Delete a folder
// @Description Removes every key under the folder, the marker included.
// @Tags storage
// @Produce json
// @Param bucket_name query string true "Bucket"
// @Param folder_name query string true "Folder"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse "Bucket does not exist"
// @Failure 500 {object} ErrorResponse
// @Router /folderdelete/ [delete]
func (h *storageHandler) deleteFolder(c *gin.Context) {
	var req dto.FolderRequest
	if err := bindParams(c, &req); err != nil {
		respondError(c, err, "Error deleting folder")
		return
	}

	if err := h.namespace.DeleteFolder(c.Request.Context(), req.BucketName, req.FolderName); err != nil {
		respondError(c, err, "Error deleting folder")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Folder '%s' and its contents deleted successfully from bucket '%s'!",
			domain.NormalizeFolder(req.FolderName), req.BucketName),
	})
}

// deleteBucket godoc
// @Summary Delete a bucket
// @Description Deletes every object of the bucket, then the bucket.
// @Tags storage
// @Produce json
// @Param bucket_name query string true "Bucket"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} ErrorResponse "Bucket does not exist"
// @Failure 500 {object} ErrorResponse
// @Router /bucketdelete/ [delete]
func (h *storageHandler) deleteBucket(c *gin.Context) {
	var req dto.BucketRequest
	if err := bindParams(c, &req); err != nil {
		respondError(c, err, "Error deleting bucket")
		return
	}

	if err := h.namespace.DeleteBucket(c.Request.Context(), req.BucketName); err != nil {
		respondError(c, err, "Error deleting bucket")
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("Bucket '%s' and all its contents deleted successfully!", req.BucketName),
	})
}
