package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/localnerve/roadmapdb/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	dbUser     = "roadmap"
	dbPassword = "roadmap-secret"
	dbName     = "roadmaps"
	dbAlias    = "database"
	// ServiceImage is the tag the service image is built and reused under
	ServiceImage = "roadmapdb-test:latest"
)

// TestContainers groups the containers of one test environment
type TestContainers struct {
	Network          *testcontainers.DockerNetwork
	DBContainer      testcontainers.Container
	ServiceContainer testcontainers.Container
	DBType           string
	// DBConfig reaches the database from the host
	DBConfig *config.Config
	// BaseURL reaches the service from the host when a service container was started
	BaseURL string
}

// Terminate stops everything that was started, in reverse order
func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.ServiceContainer != nil {
		if err := tc.ServiceContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate service: %v", err)
		}
	}
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate database: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// dbSpec describes how to run a database engine in a container
type dbSpec struct {
	image string
	port  string
	env   map[string]string
}

func databaseSpec(dbType string) (dbSpec, error) {
	switch dbType {
	case "mysql", "mariadb":
		return dbSpec{
			image: getEnv("DB_IMAGE", "mariadb:11"),
			port:  "3306",
			env: map[string]string{
				"MARIADB_ROOT_PASSWORD": dbPassword,
				"MARIADB_DATABASE":      dbName,
				"MARIADB_USER":          dbUser,
				"MARIADB_PASSWORD":      dbPassword,
			},
		}, nil
	case "postgres", "postgresql":
		return dbSpec{
			image: getEnv("DB_IMAGE", "postgres:16-alpine"),
			port:  "5432",
			env: map[string]string{
				"POSTGRES_USER":     dbUser,
				"POSTGRES_PASSWORD": dbPassword,
				"POSTGRES_DB":       dbName,
			},
		}, nil
	}
	return dbSpec{}, fmt.Errorf("no container image for database type %q", dbType)
}

// StartDatabase starts a database container on the given network (or none)
func StartDatabase(ctx context.Context, dbType, networkName string) (testcontainers.Container, *config.Config, error) {
	spec, err := databaseSpec(dbType)
	if err != nil {
		return nil, nil, err
	}
	tcpPort, err := nat.NewPort("tcp", spec.port)
	if err != nil {
		return nil, nil, err
	}

	req := testcontainers.ContainerRequest{
		Image:        spec.image,
		ExposedPorts: []string{string(tcpPort)},
		Env:          spec.env,
		WaitingFor:   wait.ForListeningPort(tcpPort).WithStartupTimeout(90 * time.Second),
	}
	if networkName != "" {
		req.Networks = []string{networkName}
		req.NetworkAliases = map[string][]string{networkName: {dbAlias}}
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start %s: %w", dbType, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return container, nil, err
	}
	mapped, err := container.MappedPort(ctx, tcpPort)
	if err != nil {
		return container, nil, err
	}

	cfg := &config.Config{
		DBType:            dbType,
		DBHost:            host,
		DBPort:            mapped.Port(),
		DBDatabase:        dbName,
		DBUser:            dbUser,
		DBPassword:        dbPassword,
		DBConnectionLimit: 5,
		DBLogLevel:        "warn",
	}
	return container, cfg, nil
}

// CreateAllTestContainers starts a database and the service image on a shared network.
// DB_TYPE selects the engine (default mariadb). The service image is built from the
// repository Dockerfile unless it already exists locally.
func CreateAllTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	tc := &TestContainers{DBType: getEnv("DB_TYPE", "mariadb")}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	tc.Network = nw

	dbContainer, dbConfig, err := StartDatabase(ctx, tc.DBType, nw.Name)
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}
	tc.DBContainer = dbContainer
	tc.DBConfig = dbConfig
	logMessage(t, "Database %s reachable at %s:%s", tc.DBType, dbConfig.DBHost, dbConfig.DBPort)

	spec, _ := databaseSpec(tc.DBType)
	servicePort, err := nat.NewPort("tcp", getEnv("PORT", "3000"))
	if err != nil {
		tc.Terminate(t)
		return nil, err
	}

	req := testcontainers.ContainerRequest{
		ExposedPorts: []string{string(servicePort)},
		Env: map[string]string{
			"PORT":        servicePort.Port(),
			"APP_ENV":     "production",
			"LOG_MODE":    "prod",
			"DB_TYPE":     tc.DBType,
			"DB_HOST":     dbAlias,
			"DB_PORT":     spec.port,
			"DB_DATABASE": dbName,
			"DB_USER":     dbUser,
			"DB_PASSWORD": dbPassword,
			"JWT_SECRET":  getEnv("JWT_SECRET", "testcontainers-secret"),
		},
		WaitingFor: wait.ForHTTP("/health").WithPort(servicePort).WithStartupTimeout(60 * time.Second),
		Networks:   []string{nw.Name},
	}

	exists, err := ImageExists(ctx, ServiceImage)
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to check if image exists: %w", err)
	}
	if exists {
		logMessage(t, "Image %s exists, reusing...", ServiceImage)
		req.Image = ServiceImage
	} else {
		logMessage(t, "Image %s does not exist, building...", ServiceImage)
		sessionID := uuid.NewString()
		parts := strings.Split(ServiceImage, ":")
		req.FromDockerfile = testcontainers.FromDockerfile{
			Context:    getEnv("TESTCONTAINERS_BUILD_CONTEXT", "../.."),
			Dockerfile: "Dockerfile",
			Repo:       parts[0],
			Tag:        parts[1],
			KeepImage:  true,
			BuildArgs:  map[string]*string{"RESOURCE_REAPER_SESSION_ID": &sessionID},
			BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
				opts.Target = "runtime"
			},
			PrintBuildLog: true,
		}
	}

	service, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		tc.Terminate(t)
		return nil, fmt.Errorf("failed to start service: %w", err)
	}
	tc.ServiceContainer = service

	host, _ := service.Host(ctx)
	port, _ := service.MappedPort(ctx, servicePort)
	tc.BaseURL = fmt.Sprintf("http://%s:%s", host, port.Port())
	logMessage(t, "BASE_URL=%s", tc.BaseURL)

	return tc, nil
}

// ImageExists reports whether the local docker daemon has imageName
func ImageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// logMessage logs to the test when there is one, otherwise to stdout
func logMessage(t *testing.T, format string, args ...interface{}) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		fmt.Printf(format+"\n", args...)
	}
}
