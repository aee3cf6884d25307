package server

import (
	"bytes"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"codeberg.org/snonux/wordcard/internal"
	"codeberg.org/snonux/wordcard/internal/history"
	"codeberg.org/snonux/wordcard/internal/session"
)

type indexPage struct {
	Identity     session.Identity
	HasIdentity  bool
	Flash        string
	Words        []string
	HistoryCount int
}

func (s *Server) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"version":  internal.Version,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) index(c *fiber.Ctx) error {
	sess := sessionOf(c)

	page := indexPage{
		Identity:    sess.Identity,
		HasIdentity: !sess.Identity.IsZero(),
		Flash:       sess.Flash(),
		Words:       sess.List.Words(),
	}
	if page.HasIdentity {
		records, err := s.ctrl.History(sess)
		if err != nil {
			s.logger.Warn("Failed to read print history", zap.Error(err))
		}
		page.HistoryCount = len(records)
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (s *Server) setIdentity(c *fiber.Ctx) error {
	sess := sessionOf(c)
	id := session.Identity{
		Class:   c.FormValue("class"),
		Name:    c.FormValue("name"),
		ListNum: c.FormValue("list"),
	}

	if err := s.ctrl.SetIdentity(sess, id); err != nil {
		var idErr *session.IdentityError
		if !errors.As(err, &idErr) {
			return err
		}
		sess.SetFlash("请填写完整信息：" + joinFields(idErr.Fields))
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) submitWords(c *fiber.Ctx) error {
	sess := sessionOf(c)

	_, err := s.ctrl.Submit(c.UserContext(), sess, c.FormValue("words"))
	switch {
	case errors.Is(err, session.ErrEmptyInput), errors.Is(err, session.ErrNoIdentity):
		sess.SetFlash(err.Error())
	case err != nil:
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) clear(c *fiber.Ctx) error {
	s.ctrl.Clear(sessionOf(c))
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) logout(c *fiber.Ctx) error {
	sess := sessionOf(c)
	s.ctrl.Logout(sess)
	s.sessions.Delete(sess.ID)
	c.Locals(loggedOutKey, true)
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (s *Server) preview(c *fiber.Ctx) error {
	html, err := s.ctrl.Preview(sessionOf(c))
	if errors.Is(err, session.ErrEmptyList) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

func (s *Server) download(c *fiber.Ctx) error {
	deck, err := s.ctrl.Download(sessionOf(c))
	switch {
	case errors.Is(err, session.ErrEmptyList):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNoIdentity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}

	c.Attachment(deck.Filename)
	c.Type("html", "utf-8")
	return c.SendString(deck.HTML)
}

func (s *Server) ankiExport(c *fiber.Ctx) error {
	export, err := s.ctrl.ExportAnki(sessionOf(c))
	switch {
	case errors.Is(err, session.ErrEmptyList):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNoIdentity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case err != nil:
		return err
	}

	c.Attachment(export.Filename)
	c.Type("csv", "utf-8")
	return c.Send(export.Data)
}

func (s *Server) history(c *fiber.Ctx) error {
	records, err := s.ctrl.History(sessionOf(c))
	if errors.Is(err, session.ErrNoIdentity) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return err
	}
	if records == nil {
		records = []history.PrintRecord{}
	}
	return c.JSON(records)
}

var fieldLabels = map[string]string{
	"Class":   "班级",
	"Name":    "姓名",
	"ListNum": "List编号",
}

func joinFields(fields []string) string {
	var buf bytes.Buffer
	for i, f := range fields {
		if i > 0 {
			buf.WriteString("、")
		}
		if label, ok := fieldLabels[f]; ok {
			buf.WriteString(label)
		} else {
			buf.WriteString(f)
		}
	}
	return buf.String()
}
