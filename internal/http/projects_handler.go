package http

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"

	"folio/internal/config"
	"folio/internal/projects"
	"folio/internal/uploads"
)

// projectParams carries create/update input. Pointer fields distinguish
// "absent" from "set to zero" so updates stay partial.
type projectParams struct {
	Title        *string            `json:"title"`
	Description  *string            `json:"description"`
	Technologies []string           `json:"technologies"`
	Image        *string            `json:"image"`
	Category     *string            `json:"category"`
	Link         *string            `json:"link"`
	Github       *string            `json:"github"`
	Videos       []string           `json:"videos"`
	Images       []string           `json:"images"`
	Stats        []projects.Stat    `json:"stats"`
	Skills       []string           `json:"skills"`
	Problem      *string            `json:"problem"`
	Solution     []string           `json:"solution"`
	Benefits     []string           `json:"benefits"`
	Sections     []projects.Section `json:"sections"`
	SortOrder    *int               `json:"sort_order"`
}

func (p *projectParams) validate(creating bool) ValidationErrors {
	errs := ValidationErrors{}
	if creating || p.Title != nil {
		errs.requireString("title", deref(p.Title), 255)
	}
	if creating || p.Description != nil {
		errs.requireString("description", deref(p.Description), 0)
	}
	if p.Category != nil {
		errs.capString("category", *p.Category, 50)
	}
	if p.Link != nil {
		errs.capString("link", *p.Link, 500)
	}
	if p.Github != nil {
		errs.capString("github", *p.Github, 500)
	}
	return errs
}

func (p *projectParams) apply(project *projects.Project) {
	if p.Title != nil {
		project.Title = *p.Title
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
	if p.Technologies != nil {
		project.Technologies = p.Technologies
	}
	if p.Image != nil {
		project.Image = p.Image
	}
	if p.Category != nil {
		project.Category = p.Category
	}
	if p.Link != nil {
		project.Link = p.Link
	}
	if p.Github != nil {
		project.Github = p.Github
	}
	if p.Videos != nil {
		project.Videos = p.Videos
	}
	if p.Images != nil {
		project.Images = p.Images
	}
	if p.Stats != nil {
		project.Stats = p.Stats
	}
	if p.Skills != nil {
		project.Skills = p.Skills
	}
	if p.Problem != nil {
		project.Problem = p.Problem
	}
	if p.Solution != nil {
		project.Solution = p.Solution
	}
	if p.Benefits != nil {
		project.Benefits = p.Benefits
	}
	if p.Sections != nil {
		project.Sections = p.Sections
	}
	if p.SortOrder != nil {
		project.SortOrder = *p.SortOrder
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ProjectsIndexAction lists projects in display order (public).
func ProjectsIndexAction(ctx *cartridge.Context) error {
	list, err := projects.List(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to list projects", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(list)
}

// ProjectShowAction returns one project (public).
func ProjectShowAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Project")
	}
	project, err := projects.FindByID(ctx.DB(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Project")
		}
		ctx.Logger.Error("Failed to load project", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(project)
}

// ProjectCreateAction creates a project (admin).
func ProjectCreateAction(ctx *cartridge.Context) error {
	var params projectParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(true); errs.Any() {
		return validationFailed(ctx, errs)
	}

	var project projects.Project
	params.apply(&project)
	if err := projects.Create(ctx.DB(), ctx.Logger, &project); err != nil {
		ctx.Logger.Error("Failed to create project", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.Status(fiber.StatusCreated).JSON(project)
}

// ProjectUpdateAction partially updates a project (admin).
func ProjectUpdateAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Project")
	}

	project, err := projects.FindByID(ctx.DB(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Project")
		}
		ctx.Logger.Error("Failed to load project", slog.Any("error", err))
		return serverError(ctx)
	}

	var params projectParams
	if err := ctx.BodyParser(&params); err != nil {
		return invalidBody(ctx)
	}
	if errs := params.validate(false); errs.Any() {
		return validationFailed(ctx, errs)
	}

	params.apply(project)
	if err := projects.Save(ctx.DB(), ctx.Logger, project); err != nil {
		ctx.Logger.Error("Failed to update project", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(project)
}

// ProjectDeleteAction removes a project (admin).
func ProjectDeleteAction(ctx *cartridge.Context) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return notFound(ctx, "Project")
	}
	if err := projects.Delete(ctx.DB(), ctx.Logger, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(ctx, "Project")
		}
		ctx.Logger.Error("Failed to delete project", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Project deleted successfully"})
}

// ProjectsReorderAction rewrites sort order from an ordered id list (admin).
func ProjectsReorderAction(ctx *cartridge.Context) error {
	ids, errs := parseReorderIDs(ctx)
	if errs != nil {
		return validationFailed(ctx, errs)
	}
	if err := projects.Reorder(ctx.DB(), ctx.Logger, ids); err != nil {
		ctx.Logger.Error("Failed to reorder projects", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(fiber.Map{"message": "Order updated"})
}

// parseReorderIDs reads the shared {"ids": [...]} reorder payload.
func parseReorderIDs(ctx *cartridge.Context) ([]uint, ValidationErrors) {
	var params struct {
		IDs []uint `json:"ids"`
	}
	if err := ctx.BodyParser(&params); err != nil || len(params.IDs) == 0 {
		errs := ValidationErrors{}
		errs.Add("ids", "The ids field is required.")
		return nil, errs
	}
	return params.IDs, nil
}

// ProjectUploadFileAction stores an image or video for project media (admin).
func ProjectUploadFileAction(ctx *cartridge.Context) error {
	file, err := ctx.Ctx.FormFile("file")
	if err != nil {
		errs := ValidationErrors{}
		errs.Add("file", "The file field is required.")
		return validationFailed(ctx, errs)
	}

	cfg := config.GetConfig()
	result, err := uploads.SaveFile(file, filepath.Join(cfg.UploadsDirectory, "projects"), "/uploads/projects")
	if err != nil {
		var verr *uploads.ValidationError
		if errors.As(err, &verr) {
			errs := ValidationErrors{}
			errs.Add("file", verr.Message)
			return validationFailed(ctx, errs)
		}
		ctx.Logger.Error("Failed to store upload", slog.Any("error", err))
		return serverError(ctx)
	}
	return ctx.JSON(result)
}
