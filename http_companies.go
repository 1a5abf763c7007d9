package jobly

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

func (ctrl *Controller) ListCompanies(c *fiber.Ctx) error {
	minEmployees, err := queryInt(c, "minEmployees")
	if err != nil {
		return err
	}
	maxEmployees, err := queryInt(c, "maxEmployees")
	if err != nil {
		return err
	}

	companies, err := ctrl.Repo.Companies().Search(c.UserContext(), CompanyFilter{
		Search:       c.Query("search"),
		MinEmployees: minEmployees,
		MaxEmployees: maxEmployees,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"companies": companies})
}

func (ctrl *Controller) CreateCompany(c *fiber.Ctx) error {
	payload, _ := Payload[CompanyCreatePayload](c)

	company, err := ctrl.Repo.Companies().Create(c.UserContext(), payload.Record())
	if err != nil {
		return err
	}

	ctrl.Logger.Info("company %q created", company.Handle)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"company": company})
}

func (ctrl *Controller) GetCompany(c *fiber.Ctx) error {
	detail, err := ctrl.Repo.Companies().Get(c.UserContext(), c.Params("handle"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (ctrl *Controller) UpdateCompany(c *fiber.Ctx) error {
	payload, _ := Payload[CompanyPatchPayload](c)

	company, err := ctrl.Repo.Companies().Update(c.UserContext(), c.Params("handle"), payload.Changes())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"company": company})
}

func (ctrl *Controller) DeleteCompany(c *fiber.Ctx) error {
	company, err := ctrl.Repo.Companies().Delete(c.UserContext(), c.Params("handle"))
	if err != nil {
		return err
	}

	ctrl.Logger.Info("company %q deleted", company.Handle)
	return c.JSON(fiber.Map{"message": fmt.Sprintf("%s was deleted", company.Handle)})
}
