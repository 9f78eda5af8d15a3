package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/wso2/identity-contact-resolution-service/internal/system/config"
	"github.com/wso2/identity-contact-resolution-service/internal/system/constants"
	"github.com/wso2/identity-contact-resolution-service/internal/system/database/provider"
	syslog "github.com/wso2/identity-contact-resolution-service/internal/system/log"
	"github.com/wso2/identity-contact-resolution-service/internal/system/managers"
	"github.com/wso2/identity-contact-resolution-service/internal/system/utils"
)

func main() {
	crsHome := getCRSHome()
	const configFile = "repository/conf/deployment.yaml"

	envFiles, _ := filepath.Glob("config/*.env")
	_ = godotenv.Load(envFiles...)

	// Load the configuration file
	crsConfig, err := config.LoadConfig(crsHome, configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize runtime configurations.
	if err := config.InitializeCRSRuntime(crsHome, crsConfig); err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	// Initialize logger
	if err := syslog.Init(crsConfig.Log.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := syslog.GetLogger()

	// Initialize the contact schema
	initDatabase(crsHome)

	serverAddr := fmt.Sprintf("%s:%d", crsConfig.Addr.Host, crsConfig.Addr.Port)
	mux := enableCORS(utils.TraceMiddleware(initMultiplexer()))
	logger.Info("Contact resolution service starting", syslog.String("addr", serverAddr))

	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		logger.Fatal("Failed to start listener", syslog.Error(err))
	}

	server := &http.Server{Handler: mux}
	if err := server.Serve(ln); err != nil {
		logger.Fatal("Failed to serve requests", syslog.Error(err))
	}
}

// initDatabase applies the contact schema and verifies connectivity.
func initDatabase(crsHome string) {

	logger := syslog.GetLogger()
	dbClient, err := provider.NewDBProvider().GetDBClient()
	if err != nil {
		logger.Fatal("Failed to connect to the database", syslog.Error(err))
	}
	defer dbClient.Close()

	if err := dbClient.InitDatabase(crsHome, constants.SchemaScriptPath); err != nil {
		logger.Fatal("Failed to initialize the contact schema", syslog.Error(err))
	}
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	if err := serviceManager.RegisterServices(); err != nil {
		syslog.GetLogger().Fatal("Failed to register the services", syslog.Error(err))
	}

	return mux
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func getCRSHome() string {

	// Parse project directory from command line arguments.
	projectHome := ""
	projectHomeFlag := flag.String("crsHome", "", "Path to contact resolution service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		projectHome = *projectHomeFlag
	} else {
		// If no command line argument is provided, use the current working directory.
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			log.Fatalf("Failed to get current working directory: %v", dirErr)
		}
		projectHome = dir
	}

	return projectHome
}
