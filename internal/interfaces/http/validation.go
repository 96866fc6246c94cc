package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// parseBody decodifica o JSON e roda as tags validate. Devolve a mensagem pronta para o 400.
func parseBody(c *fiber.Ctx, dest any) (string, bool) {
	if err := c.BodyParser(dest); err != nil {
		return "Corpo da requisição inválido", false
	}
	if err := validate.Struct(dest); err != nil {
		return validationMessage(err), false
	}
	return "", true
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return "Dados inválidos"
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	campo := fe.Field()
	switch fe.Tag() {
	case "required":
		return campo + " é obrigatório"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s deve ter ao menos %s itens", campo, fe.Param())
		}
		return fmt.Sprintf("%s deve ter no mínimo %s", campo, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s deve ter no máximo %s itens", campo, fe.Param())
		}
		return fmt.Sprintf("%s deve ter no máximo %s", campo, fe.Param())
	case "email":
		return campo + " deve ser um email válido"
	case "uuid":
		return campo + " deve ser um UUID"
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", campo, fe.Param())
	}
	return campo + " é inválido"
}

// parseDataQuery lê um filtro de data em RFC3339 ou AAAA-MM-DD. fimDoDia estende datas
// sem hora até 23:59:59.999 (usado em "ate").
func parseDataQuery(c *fiber.Ctx, key string, fimDoDia bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("%s deve estar no formato AAAA-MM-DD ou RFC3339", key)
	}
	if fimDoDia {
		t = t.Add(24*time.Hour - time.Millisecond)
	}
	return &t, nil
}
