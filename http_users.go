package jobly

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Login exchanges credentials for a token
func (ctrl *Controller) Login(c *fiber.Ctx) error {
	payload, _ := Payload[LoginPayload](c)

	token, err := ctrl.Auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}

// RegisterUser creates the account and returns a token for it
func (ctrl *Controller) RegisterUser(c *fiber.Ctx) error {
	payload, _ := Payload[UserCreatePayload](c)

	user, err := ctrl.Repo.Users().Register(c.UserContext(), payload.Record(), payload.Password)
	if err != nil {
		return err
	}

	token, err := ctrl.Auther.TokenFor(user)
	if err != nil {
		return err
	}

	ctrl.Logger.Info("user %q registered", user.Username)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"token": token})
}

func (ctrl *Controller) ListUsers(c *fiber.Ctx) error {
	users, err := ctrl.Repo.Users().List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"users": users})
}

func (ctrl *Controller) GetUser(c *fiber.Ctx) error {
	detail, err := ctrl.Repo.Users().Get(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(detail)
}

func (ctrl *Controller) UpdateUser(c *fiber.Ctx) error {
	payload, _ := Payload[UserPatchPayload](c)

	user, err := ctrl.Repo.Users().Update(c.UserContext(), c.Params("username"), payload.Changes())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

func (ctrl *Controller) DeleteUser(c *fiber.Ctx) error {
	user, err := ctrl.Repo.Users().Delete(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}

	ctrl.Logger.Info("user %q deleted", user.Username)
	return c.JSON(fiber.Map{"message": fmt.Sprintf("%s has been deleted", user.Username)})
}

// ToggleAdmin flips the admin flag of the user in the path
func (ctrl *Controller) ToggleAdmin(c *fiber.Ctx) error {
	user, err := ctrl.Repo.Users().ToggleAdmin(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}

	ctrl.Logger.Info("user %q is_admin set to %t", user.Username, user.IsAdmin)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%s's is_admin status has been updated", user.Username),
	})
}
