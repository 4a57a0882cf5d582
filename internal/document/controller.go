package document

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"labvault-api/internal/logs"

	"github.com/gin-gonic/gin"
)

// allowedExtensions lists the file types accepted for upload. Anything
// else is rejected before touching storage.
var allowedExtensions = map[string]bool{
	"csv": true, "tsv": true, "txt": true,
	"xlsx": true, "xls": true,
	"pdf": true, "docx": true, "json": true,
	"fastq": true, "fasta": true, "bam": true, "vcf": true,
	"png": true, "jpg": true, "jpeg": true,
}

// maxUploadBytes caps a single document upload at 100 MiB.
const maxUploadBytes = 100 << 20

type DocumentController struct {
	DocumentService DocumentServicePort
	LogService      *logs.LogService
}

type uploadInput struct {
	Title        string   `form:"title" binding:"required"`
	Description  string   `form:"description"`
	DocumentType string   `form:"document_type"`
	Tags         []string `form:"tags"`
	ProjectID    *uint    `form:"project_id"`
	ExperimentID *uint    `form:"experiment_id"`
}

type branchInput struct {
	VersionComment *string `form:"version_comment"`
}

func (dc *DocumentController) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input uploadInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload form: " + err.Error()})
		return
	}

	fileName, mimeType, content, ok := readUploadedFile(c)
	if !ok {
		return
	}

	doc, err := dc.DocumentService.Create(c.Request.Context(), CreateInput{
		Title:        input.Title,
		Description:  input.Description,
		DocumentType: input.DocumentType,
		FileName:     fileName,
		MimeType:     mimeType,
		Tags:         input.Tags,
		ProjectID:    input.ProjectID,
		ExperimentID: input.ExperimentID,
	}, content, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dc.log(userID, "UPLOAD_DOCUMENT", fmt.Sprintf("Document %q uploaded as lineage %d", doc.Title, doc.ID))
	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

func (dc *DocumentController) Branch(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lineageID, ok := pathUint(c, "id")
	if !ok {
		return
	}

	var input branchInput
	_ = c.ShouldBind(&input)

	_, _, content, ok := readUploadedFile(c)
	if !ok {
		return
	}

	doc, err := dc.DocumentService.Branch(c.Request.Context(), lineageID, content, input.VersionComment, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dc.log(userID, "BRANCH_DOCUMENT", fmt.Sprintf("Lineage %d advanced to version %d", lineageID, doc.VersionNumber))
	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

func (dc *DocumentController) Restore(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lineageID, ok := pathUint(c, "id")
	if !ok {
		return
	}

	targetVersion, err := strconv.Atoi(c.Param("version"))
	if err != nil || targetVersion < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
		return
	}

	doc, err := dc.DocumentService.Restore(c.Request.Context(), lineageID, targetVersion, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	dc.log(userID, "RESTORE_DOCUMENT", fmt.Sprintf("Lineage %d restored from version %d as version %d", lineageID, targetVersion, doc.VersionNumber))
	c.JSON(http.StatusCreated, gin.H{"data": doc})
}

func (dc *DocumentController) List(c *gin.Context) {
	var filter ListFilter

	if v := c.Query("project_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		pid := uint(id)
		filter.ProjectID = &pid
	}
	if v := c.Query("experiment_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid experiment_id"})
			return
		}
		eid := uint(id)
		filter.ExperimentID = &eid
	}
	if v := c.Query("document_type"); v != "" {
		filter.DocumentType = &v
	}
	if v := c.Query("file_type"); v != "" {
		filter.FileType = &v
	}
	filter.LatestOnly = c.DefaultQuery("latest_only", "true") != "false"
	filter.Skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	docs, err := dc.DocumentService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": docs, "count": len(docs)})
}

func (dc *DocumentController) GetLatest(c *gin.Context) {
	lineageID, ok := pathUint(c, "id")
	if !ok {
		return
	}

	doc, err := dc.DocumentService.GetLatest(lineageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (dc *DocumentController) GetVersion(c *gin.Context) {
	lineageID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	versionNumber, err := strconv.Atoi(c.Param("version"))
	if err != nil || versionNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version number"})
		return
	}

	doc, err := dc.DocumentService.GetVersion(lineageID, versionNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (dc *DocumentController) ListVersions(c *gin.Context) {
	lineageID, ok := pathUint(c, "id")
	if !ok {
		return
	}

	versions, err := dc.DocumentService.ListVersions(lineageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": versions, "count": len(versions)})
}

func (dc *DocumentController) Download(c *gin.Context) {
	lineageID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	versionNumber, _ := strconv.Atoi(c.DefaultQuery("version", "0"))

	content, doc, err := dc.DocumentService.Download(c.Request.Context(), lineageID, versionNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	mime := doc.MimeType
	if mime == "" {
		mime = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, mime, content)
}

func (dc *DocumentController) Preview(c *gin.Context) {
	lineageID, ok := pathUint(c, "id")
	if !ok {
		return
	}
	versionNumber, _ := strconv.Atoi(c.DefaultQuery("version", "0"))
	maxRows, _ := strconv.Atoi(c.DefaultQuery("rows", "50"))

	preview, err := dc.DocumentService.Preview(c.Request.Context(), lineageID, versionNumber, maxRows)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": preview})
}

func (dc *DocumentController) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	lineageID, ok := pathUint(c, "id")
	if !ok {
		return
	}

	cascade := c.DefaultQuery("cascade", "false") == "true"
	var versionID uint
	if v := c.Query("version_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid version_id"})
			return
		}
		versionID = uint(id)
	}

	result, err := dc.DocumentService.DeleteLineage(c.Request.Context(), lineageID, cascade, versionID)
	if err != nil {
		respondError(c, err)
		return
	}

	dc.log(userID, "DELETE_DOCUMENT", fmt.Sprintf("Lineage %d delete removed %d version(s)", lineageID, result.Deleted))
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (dc *DocumentController) log(userID uint, action, message string) {
	if dc.LogService == nil {
		return
	}
	uid := userID
	if err := dc.LogService.Log(logs.SystemLog{
		Level:   "INFO",
		Service: "document",
		Action:  action,
		Message: message,
		UserID:  &uid,
	}, nil); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}
}

// readUploadedFile pulls the single "file" part out of the multipart form
// and enforces the extension allowlist and size cap.
func readUploadedFile(c *gin.Context) (fileName, mimeType string, content []byte, ok bool) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a file is required"})
		return "", "", nil, false
	}
	if header.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 100MB upload limit"})
		return "", "", nil, false
	}

	ext := strings.TrimPrefix(strings.ToLower(filepathExt(header.Filename)), ".")
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("file type %q is not supported", ext)})
		return "", "", nil, false
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return "", "", nil, false
	}
	defer f.Close()

	content, err = io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return "", "", nil, false
	}

	return header.Filename, header.Header.Get("Content-Type"), content, true
}

func filepathExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ""
}

func currentUser(c *gin.Context) (uint, bool) {
	userIDVal, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user ID not found"})
		return 0, false
	}
	userID, ok := userIDVal.(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user ID"})
		return 0, false
	}
	return uint(userID), true
}

func pathUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service sentinels onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrVersionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
