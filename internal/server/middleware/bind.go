package middleware

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/cstockton/go-conv"
	"github.com/labstack/echo/v4"

	"github.com/nguyentranbao-ct/merch-api/internal/models"
)

// BindAndValidate bind request context and validate request struct.
// Bind includes request body, params, query, headers and the verified jwt claims.
// Validate request struct, response bad request with error message if the request is invalid.
func BindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}

	if err := bindHeader(c.Request().Header, req); err != nil {
		return err
	}

	if err := bindPrincipal(c, req); err != nil {
		return err
	}

	if err := c.Validate(req); err != nil {
		return err
	}

	return nil
}

// GetPrincipal returns the caller set by JWTAuth, or nil.
func GetPrincipal(c echo.Context) *models.Principal {
	principal, _ := c.Get(PrincipalKey).(*models.Principal)
	return principal
}

// bindPrincipal decodes the verified token claims to struct by tag `jwt:"claim"`
func bindPrincipal(c echo.Context, dst interface{}) error {
	principal := GetPrincipal(c)
	if principal == nil {
		return nil
	}

	getValueFn := func(tagValue string) (interface{}, error) {
		var value interface{}
		switch tagValue {
		case "sub":
			value = principal.UserID
		case "email":
			value = principal.Email
		case "role":
			value = string(principal.Role)
		default:
			return nil, fmt.Errorf("binding jwt field %s is not supported", tagValue)
		}
		return value, nil
	}

	return bindStruct(dst, "jwt", getValueFn)
}

// bindHeader decode http header to struct by tag `header:"<header_name>"`
// out must be a pointer to a struct
func bindHeader(header http.Header, dst interface{}) error {
	getValueFn := func(tagValue string) (interface{}, error) {
		return header.Get(tagValue), nil
	}

	return bindStruct(dst, "header", getValueFn)
}

// bindStruct decode to struct by custom tag `tagName:"tagValue"`
// dst must be a pointer to a struct
func bindStruct(dst interface{}, tagName string, getValueFn func(tagValue string) (interface{}, error)) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Ptr {
		return fmt.Errorf("non-pointer passed to Unmarshal")
	}

	indirect := reflect.Indirect(ptr)
	structType := indirect.Type()
	elemZero := reflect.Zero(structType)

	numField := elemZero.NumField()
	for i := 0; i < numField; i++ {
		structField := structType.Field(i)
		tagValue := structField.Tag.Get(tagName)
		if tagValue == "-" || tagValue == "" {
			continue
		}

		field := indirect.Field(i)
		value, err := getValueFn(tagValue)
		if err != nil {
			return err
		}
		if err := conv.Infer(field, value); err != nil {
			return fmt.Errorf("cannot parse %s.%s as %s from: %#v / %s",
				structType.Name(), structField.Name, field.Type(), value, err)
		}
	}

	return nil
}
