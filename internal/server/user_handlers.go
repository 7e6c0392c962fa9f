package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListUsers handles GET /user
func (s *Server) ListUsers(c *fiber.Ctx) error {
	ctx, cancel := s.requestContext(c)
	defer cancel()

	users, err := s.userService.List(ctx)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /user/:userId
func (s *Server) GetUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userService.Get(ctx, userID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// CreateUser handles POST /user
func (s *Server) CreateUser(c *fiber.Ctx) error {
	payload, err := s.parsePayload(c)
	if err != nil {
		return nil
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userService.Create(ctx, payload)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// UpdateUser handles PUT /user/:userId
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	payload, err := s.parsePayload(c)
	if err != nil {
		return nil
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	user, err := s.userService.Update(ctx, userID, payload)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /user/:userId
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	if err := s.userService.Delete(ctx, userID); err != nil {
		return s.respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
