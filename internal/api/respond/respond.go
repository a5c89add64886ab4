package respond

import (
	"encoding/json"
	"fmt"
	"net/http"

	"blogescola/internal/domain"
	apperror "blogescola/internal/errors"
	"blogescola/internal/pkg/logger"
)

// Handle padroniza o tratamento de respostas dos handlers: serializa o
// sucesso com o status informado ou traduz o erro de serviço para o
// par status/corpo correspondente. Erros 5xx são logados com a causa
// raiz; o cliente recebe apenas a mensagem genérica.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)

		log.Info("Requisição concluída com sucesso.", map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": successStatus,
		})

		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				log.Error("Falha ao codificar JSON de resposta.", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d.", status), map[string]interface{}{
			"path":     r.URL.Path,
			"category": category,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}
