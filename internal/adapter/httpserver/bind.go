package httpserver

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/app"
)

// bindSubmitRequest reads a multipart (or form-encoded) submission body.
// Field-shape problems that the validator cannot express on typed fields
// (a non-integer hackathon_count, an oversized resume) are reported as
// per-field validation errors here.
func (s *Server) bindSubmitRequest(c echo.Context) (app.SubmitRequest, *app.ResumeUpload, func(), error) {
	req := app.SubmitRequest{
		ClassYear:           c.FormValue("class_year"),
		GradYear:            c.FormValue("grad_year"),
		Major:               c.FormValue("major"),
		Referral:            c.FormValue("referral"),
		ShirtSize:           c.FormValue("shirt_size"),
		DietaryRestrictions: c.FormValue("dietary_restrictions"),
		Website:             c.FormValue("website"),
		LongAnswer1:         c.FormValue("longanswer_1"),
		LongAnswer2:         c.FormValue("longanswer_2"),
	}

	raw := c.FormValue("hackathon_count")
	if raw == "" {
		return req, nil, nil, app.NewValidationError("hackathon_count", "this field is required")
	}
	count, err := strconv.Atoi(raw)
	if err != nil {
		return req, nil, nil, app.NewValidationError("hackathon_count", "must be an integer")
	}
	req.HackathonCount = count

	resume, closeResume, err := s.bindResume(c)
	if err != nil {
		return req, nil, nil, err
	}
	return req, resume, closeResume, nil
}

// bindUpdateRequest reads a partial update body. Only fields present in the
// form are bound; absent fields stay nil and are neither validated nor
// applied.
func (s *Server) bindUpdateRequest(c echo.Context) (app.UpdateRequest, *app.ResumeUpload, func(), error) {
	var req app.UpdateRequest

	params, err := c.FormParams()
	if err != nil {
		return req, nil, nil, app.NewValidationError("body", "malformed form body")
	}

	str := func(name string) *string {
		if vs, ok := params[name]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}

	req.ClassYear = str("class_year")
	req.GradYear = str("grad_year")
	req.Major = str("major")
	req.Referral = str("referral")
	req.ShirtSize = str("shirt_size")
	req.DietaryRestrictions = str("dietary_restrictions")
	req.Website = str("website")
	req.LongAnswer1 = str("longanswer_1")
	req.LongAnswer2 = str("longanswer_2")

	if raw := str("hackathon_count"); raw != nil {
		count, err := strconv.Atoi(*raw)
		if err != nil {
			return req, nil, nil, app.NewValidationError("hackathon_count", "must be an integer")
		}
		req.HackathonCount = &count
	}

	resume, closeResume, err := s.bindResume(c)
	if err != nil {
		return req, nil, nil, err
	}
	return req, resume, closeResume, nil
}

// bindResume extracts the optional "resume" file part. The returned cleanup
// func must be called after the service has consumed the reader.
func (s *Server) bindResume(c echo.Context) (*app.ResumeUpload, func(), error) {
	header, err := c.FormFile("resume")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, app.NewValidationError("resume", "malformed file upload")
	}

	if header.Size > s.config.MaxResumeSizeBytes {
		return nil, nil, app.NewValidationError("resume",
			fmt.Sprintf("file exceeds %d bytes", s.config.MaxResumeSizeBytes))
	}

	file, err := header.Open()
	if err != nil {
		return nil, nil, app.NewValidationError("resume", "could not read file upload")
	}

	return &app.ResumeUpload{
		Reader:      file,
		Size:        header.Size,
		ContentType: resumeContentType(header),
	}, func() { _ = file.Close() }, nil
}

func resumeContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
