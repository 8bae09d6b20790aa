package orchestrator

import "github.com/drasi-project/drasi-server/internal/config"

// The orchestrator keeps each component's DTO alongside its resolved domain
// config so Snapshot can re-emit configvalue references verbatim rather than
// their resolved values.

func (o *Orchestrator) setSourceDTO(id string, dto config.SourceConfigDTO) {
	o.dtoMu.Lock()
	defer o.dtoMu.Unlock()
	o.sourceDTOs[id] = dto
}

func (o *Orchestrator) getSourceDTO(id string) config.SourceConfigDTO {
	o.dtoMu.RLock()
	defer o.dtoMu.RUnlock()
	return o.sourceDTOs[id]
}

func (o *Orchestrator) deleteSourceDTO(id string) {
	o.dtoMu.Lock()
	defer o.dtoMu.Unlock()
	delete(o.sourceDTOs, id)
}

func (o *Orchestrator) setQueryDTO(id string, dto config.QueryConfigDTO) {
	o.dtoMu.Lock()
	defer o.dtoMu.Unlock()
	o.queryDTOs[id] = dto
}

func (o *Orchestrator) getQueryDTO(id string) config.QueryConfigDTO {
	o.dtoMu.RLock()
	defer o.dtoMu.RUnlock()
	return o.queryDTOs[id]
}

func (o *Orchestrator) deleteQueryDTO(id string) {
	o.dtoMu.Lock()
	defer o.dtoMu.Unlock()
	delete(o.queryDTOs, id)
}

func (o *Orchestrator) setReactionDTO(id string, dto config.ReactionConfigDTO) {
	o.dtoMu.Lock()
	defer o.dtoMu.Unlock()
	o.reactionDTOs[id] = dto
}

func (o *Orchestrator) getReactionDTO(id string) config.ReactionConfigDTO {
	o.dtoMu.RLock()
	defer o.dtoMu.RUnlock()
	return o.reactionDTOs[id]
}

func (o *Orchestrator) deleteReactionDTO(id string) {
	o.dtoMu.Lock()
	defer o.dtoMu.Unlock()
	delete(o.reactionDTOs, id)
}
