package llm

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"resumecrafter/internal/domain"
	llmSvc "resumecrafter/internal/domain/services/llm"
)

// validateMessages checks every caller-supplied history entry.
func validateMessages(messages []llmSvc.Message) error {
	for i, msg := range messages {
		err := validation.ValidateStruct(&msg,
			validation.Field(&msg.Role,
				validation.Required,
				validation.In(llmSvc.RoleUser, llmSvc.RoleAssistant, llmSvc.RoleSystem, llmSvc.RoleDeveloper),
			),
		)
		if err != nil {
			return &domain.ValidationError{Message: fmt.Sprintf("messages[%d]: %v", i, err)}
		}

		for j, part := range msg.Parts {
			if err := validatePart(part); err != nil {
				return &domain.ValidationError{Message: fmt.Sprintf("messages[%d].content[%d]: %v", i, j, err)}
			}
		}
	}
	return nil
}

func validatePart(part llmSvc.ContentPart) error {
	err := validation.ValidateStruct(&part,
		validation.Field(&part.Type,
			validation.Required,
			validation.In(llmSvc.PartTypeText, llmSvc.PartTypeImageURL),
		),
		validation.Field(&part.ImageURL,
			validation.When(part.Type == llmSvc.PartTypeImageURL, validation.Required),
		),
	)
	if err != nil {
		return err
	}
	if part.Type == llmSvc.PartTypeImageURL {
		return validation.ValidateStruct(part.ImageURL,
			validation.Field(&part.ImageURL.URL, validation.Required),
		)
	}
	return nil
}
