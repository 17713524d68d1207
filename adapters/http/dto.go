package http

import (
	"time"

	mediaUC "github.com/itww/admin-api/internal/application/usecase/media"
	"github.com/itww/admin-api/internal/domain/user"
)

// Blog DTOs

type BlogRequest struct {
	ID        int64   `json:"blog_id"`
	Title     string  `json:"title" binding:"required"`
	Content   string  `json:"content"`
	ImageURL  *string `json:"imageUrl"`
	Published bool    `json:"published"`
}

// Job posting DTOs

type JobPostingRequest struct {
	ID        int64   `json:"job_info_id"`
	Title     string  `json:"title" binding:"required"`
	Content   string  `json:"content"`
	Location  string  `json:"location"`
	Type      string  `json:"type"`
	PDFURL    *string `json:"pdf_url"`
	Published bool    `json:"published"`
}

// Job application DTOs

type JobApplicationRequest struct {
	ID            int64  `json:"job_applications_id" form:"job_applications_id"`
	Name          string `json:"name" form:"name" binding:"required"`
	Email         string `json:"email" form:"email" binding:"omitempty,email"`
	Phone         string `json:"phone" form:"phone"`
	Address       string `json:"address" form:"address"`
	Hear          string `json:"hear" form:"hear"`
	Message       string `json:"message" form:"message"`
	JobCategoryID *int64 `json:"job_category_id" form:"job_category_id"`
}

// Media DTOs

// MediaDTO keeps the original column names. file_path is a signed read URL,
// never the storage key.
type MediaDTO struct {
	ID         int64     `json:"media_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileType   string    `json:"file_type"`
	ModuleRef  string    `json:"module_ref"`
	UploadedBy int64     `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToMediaDTO(a mediaUC.SignedAsset) MediaDTO {
	return MediaDTO{
		ID:         a.ID,
		FileName:   a.FileName,
		FilePath:   a.URL,
		FileType:   a.ContentType,
		ModuleRef:  a.ModuleRef,
		UploadedBy: a.UploadedBy,
		CreatedAt:  a.CreatedAt,
	}
}

// Auth DTOs

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserDTO struct {
	ID        int64   `json:"id"`
	Username  *string `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func ToUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type SignInResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
	Token   string  `json:"token"`
}
