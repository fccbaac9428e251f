package service

import "skill_tracker_backend/internal/validation"

const msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."

// collectErrors 校验表单并返回字段错误，便于再追加需要查库的检查
func collectErrors(form interface{}) (validation.Errors, error) {
	errs := validation.Errors{}
	if err := validation.Validate(form); err != nil {
		verr, ok := validation.As(err)
		if !ok {
			return nil, err
		}
		errs.Merge(verr.Fields)
	}
	return errs, nil
}
