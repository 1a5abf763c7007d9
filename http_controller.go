package jobly

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Controller serves the REST surface. Handlers only translate between
// HTTP and the repositories; every authorization decision is made by
// the guard chain mounted in front of them.
type Controller struct {
	Logger Logger
	Repo   RepositoryManager
	Guards *Guards
	Auther *Authenticator
}

type ControllerOption func(*Controller) *Controller

func WithControllerLogger(logger Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = normalizeLogger(logger)
		return c
	}
}

func NewController(repo RepositoryManager, guards *Guards, auther *Authenticator, opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger: defLogger,
		Repo:   repo,
		Guards: guards,
		Auther: auther,
	}

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

// RegisterRoutes mounts every resource route on app, then the catch all
// not found handler. Body validators sit in front of the guards on the
// create and update routes of companies, jobs and users.
func RegisterRoutes(app fiber.Router, ctrl *Controller) {
	g := ctrl.Guards

	app.Post("/login", stack(
		ValidateBody[LoginPayload](),
		ctrl.Login,
	)...).Name("auth.login")

	app.Get("/companies", stack(g.LoggedIn(), ctrl.ListCompanies)...).Name("companies.list")
	app.Post("/companies", stack(
		ValidateBody[CompanyCreatePayload](),
		g.Admin(),
		ctrl.CreateCompany,
	)...).Name("companies.create")
	app.Get("/companies/:handle", stack(g.LoggedIn(), ctrl.GetCompany)...).Name("companies.get")
	app.Patch("/companies/:handle", stack(
		ValidateBody[CompanyPatchPayload](),
		g.Admin(),
		ctrl.UpdateCompany,
	)...).Name("companies.update")
	app.Delete("/companies/:handle", stack(g.Admin(), ctrl.DeleteCompany)...).Name("companies.delete")

	app.Get("/jobs", stack(g.LoggedIn(), ctrl.ListJobs)...).Name("jobs.list")
	app.Post("/jobs", stack(
		ValidateBody[JobCreatePayload](),
		g.Admin(),
		ctrl.CreateJob,
	)...).Name("jobs.create")
	app.Get("/jobs/:id", stack(g.LoggedIn(), ctrl.GetJob)...).Name("jobs.get")
	app.Patch("/jobs/:id", stack(
		ValidateBody[JobPatchPayload](),
		g.Admin(),
		ctrl.UpdateJob,
	)...).Name("jobs.update")
	app.Delete("/jobs/:id", stack(g.Admin(), ctrl.DeleteJob)...).Name("jobs.delete")
	app.Post("/jobs/:id/apply", stack(
		g.LoggedIn(),
		ValidateBody[ApplicationPayload](),
		ctrl.ApplyToJob,
	)...).Name("jobs.apply")
	app.Post("/jobs/:id/tech", stack(
		g.LoggedIn(),
		ValidateBody[TechnologyPayload](),
		ctrl.AddTechnology,
	)...).Name("jobs.tech")

	app.Post("/users", stack(
		ValidateBody[UserCreatePayload](),
		g.Public(),
		ctrl.RegisterUser,
	)...).Name("users.create")
	app.Get("/users", stack(g.Public(), ctrl.ListUsers)...).Name("users.list")
	app.Patch("/users/admin/:username", stack(g.Admin(), ctrl.ToggleAdmin)...).Name("users.admin")
	app.Get("/users/:username", stack(g.Public(), ctrl.GetUser)...).Name("users.get")
	app.Patch("/users/:username", stack(
		ValidateBody[UserPatchPayload](),
		g.SameUser("username"),
		ctrl.UpdateUser,
	)...).Name("users.update")
	app.Delete("/users/:username", stack(g.SameUser("username"), ctrl.DeleteUser)...).Name("users.delete")

	app.Use(NotFoundHandler)
}

// stack flattens handlers and handler slices into one chain
func stack(parts ...any) []fiber.Handler {
	out := []fiber.Handler{}
	for _, part := range parts {
		switch h := part.(type) {
		case fiber.Handler:
			out = append(out, h)
		case []fiber.Handler:
			out = append(out, h...)
		default:
			panic(fmt.Sprintf("jobly: unsupported route handler %T", part))
		}
	}
	return out
}

func jobIDParam(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, NotFoundError("%s", msgJobNotFound)
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, ValidationError([]string{fmt.Sprintf("%s: must be an integer", key)})
	}
	return &v, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, ValidationError([]string{fmt.Sprintf("%s: must be a number", key)})
	}
	return &v, nil
}
