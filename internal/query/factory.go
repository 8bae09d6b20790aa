package query

import "github.com/drasi-project/drasi-server/internal/config"

// Factory maps a QueryConfigDTO to its resolved domain config plus a fresh
// Evaluator. Query text carries no configvalue references, so
// unlike source/reaction factories this needs no Resolver.
func Factory(dto config.QueryConfigDTO) (config.QueryConfig, *Evaluator, error) {
	cfg := config.QueryConfig{
		ID:        dto.ID,
		Text:      dto.Query,
		Language:  dto.Language,
		Sources:   dto.Sources,
		AutoStart: dto.AutoStart,
		Joins:     dto.Joins,
	}
	return cfg, New(cfg), nil
}
