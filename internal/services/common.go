package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"backoffice/internal/repositories"
	"backoffice/pkg/utils"
)

func dbError(err error) error {
	return fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKey(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// jsonObject validates raw as a JSON object (or empty) and returns it as a
// column value.
func jsonObject(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: metadata must be a JSON object", utils.ErrInvalidInput)
	}
	return datatypes.JSON(raw), nil
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func pageOf(page, limit int) repositories.Page {
	p := utils.NewPagination(page, limit, 0)
	return repositories.Page{Offset: p.Offset(), Limit: limit}
}
