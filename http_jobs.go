package jobly

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (ctrl *Controller) ListJobs(c *fiber.Ctx) error {
	minSalary, err := queryFloat(c, "minSalary")
	if err != nil {
		return err
	}
	minEquity, err := queryFloat(c, "minEquity")
	if err != nil {
		return err
	}

	jobs, err := ctrl.Repo.Jobs().Search(c.UserContext(), JobFilter{
		Search:    c.Query("search"),
		MinSalary: minSalary,
		MinEquity: minEquity,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"jobs": jobs})
}

func (ctrl *Controller) CreateJob(c *fiber.Ctx) error {
	payload, _ := Payload[JobCreatePayload](c)

	job, err := ctrl.Repo.Jobs().Create(c.UserContext(), payload.Record())
	if err != nil {
		return err
	}

	ctrl.Logger.Info("job %d created for %q", job.ID, job.CompanyHandle)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"job": job})
}

func (ctrl *Controller) GetJob(c *fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}

	detail, err := ctrl.Repo.Jobs().Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (ctrl *Controller) UpdateJob(c *fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}

	payload, _ := Payload[JobPatchPayload](c)
	job, err := ctrl.Repo.Jobs().Update(c.UserContext(), id, payload.Changes())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"job": job})
}

func (ctrl *Controller) DeleteJob(c *fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}

	job, err := ctrl.Repo.Jobs().Delete(c.UserContext(), id)
	if err != nil {
		return err
	}

	ctrl.Logger.Info("job %d deleted", job.ID)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Job %s at ID: %d was deleted", job.Title, job.ID),
	})
}

// ApplyToJob records the caller's application state for the job
func (ctrl *Controller) ApplyToJob(c *fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}

	identity, ok := ctrl.Guards.Identity(c)
	if !ok {
		return ErrUnauthorized
	}

	payload, _ := Payload[ApplicationPayload](c)
	app, err := ctrl.Repo.Applications().Apply(c.UserContext(), identity.Username, id, payload.State)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": app.State})
}

func (ctrl *Controller) AddTechnology(c *fiber.Ctx) error {
	id, err := jobIDParam(c)
	if err != nil {
		return err
	}

	payload, _ := Payload[TechnologyPayload](c)
	tech, err := ctrl.Repo.Technologies().Add(c.UserContext(), id, payload.LanguageName)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf(" %s was added to technology", tech.LanguageName),
	})
}
