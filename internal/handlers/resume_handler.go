package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careervault/vault/internal/services"
)

type ResumeHandler struct {
	Resumes *services.ResumeService
}

func NewResumeHandler(resumes *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{
		Resumes: resumes,
	}
}

// ListResumes is the GET /resumes endpoint.
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	resumes, err := h.Resumes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumes)
}

// UploadResume is the POST /resumes endpoint (multipart, field "file").
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file: " + err.Error()})
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable file: " + err.Error()})
		return
	}

	resume, err := h.Resumes.Upload(c.Request.Context(), header.Filename, content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Resume uploaded", "resume": resume})
}

// DeleteResume is the DELETE /resumes/:id endpoint.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	if err := h.Resumes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Resume deleted successfully."})
}

// Preview is the GET /resumes/:id/preview endpoint. An unavailable preview
// is a state, not an error: the body says so and the caller may retry.
func (h *ResumeHandler) Preview(c *gin.Context) {
	url, err := h.Resumes.Preview(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true, "signed_url": url})
}
