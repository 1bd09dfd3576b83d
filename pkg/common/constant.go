package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyAgriDBType string = "AGRI_DB_TYPE"
	EnvKeyAgriDbPath string = "AGRI_DB_PATH"

	EnvKeyAgriHttpHostPort string = "AGRI_HTTP_HOST_PORT"

	EnvKeyAgriBridgeURL        string = "AGRI_BRIDGE_URL"
	EnvKeyAgriBridgeTimeoutSec string = "AGRI_BRIDGE_TIMEOUT_SEC"

	EnvKeyAgriJwtSecret       string = "AGRI_JWT_SECRET"
	EnvKeyAgriSessionTTLHours string = "AGRI_SESSION_TTL_HOURS"

	EnvKeyAgriDefaultRate  string = "AGRI_DEFAULT_RATE"
	EnvKeyAgriDefaultBurst string = "AGRI_DEFAULT_BURST"

	LoggerNameFarmCore      string = "farm_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameBridge        string = "bridge"
	LoggerFieldCategory     string = "category"
	LoggerCategoryReading   string = "reading"
	LoggerCategoryAlert     string = "alert"
	LoggerCategoryPump      string = "pump"
	LoggerCategoryDevice    string = "device"
	LoggerCategoryUser      string = "user"
)
