package healthcheck

import (
	"net/http"

	"event-manager-backend/config"
	"event-manager-backend/response"

	"github.com/spf13/viper"
)

// Self answers while the process is serving.
func Self(w http.ResponseWriter, r *http.Request) {
	response.SuccessResponse{
		Data:       &response.Data{Status: "OK", Version: viper.GetString(config.AppVersion)},
		StatusCode: http.StatusOK,
	}.Send(w)
}
