package export

import "resumeforge/services/optimize"

type UserData struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type ExportRequest struct {
	Result   optimize.OptimizationResult `json:"resultJson" binding:"required"`
	Format   string                      `json:"format" binding:"required,oneof=docx pdf"`
	UserData UserData                    `json:"userData" binding:"required"`
}
