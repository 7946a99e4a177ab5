package handler

import (
	"context"
	"time"

	"notetaker/utils"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var startTime = time.Now()

// HealthHandler reports process uptime, host load and store reachability.
func HealthHandler(c *gin.Context, mongoClient *mongo.Client) {
	health := gin.H{
		"status": "ok",
		"uptime": time.Since(startTime).String(),
	}

	if percentages, err := cpu.Percent(0, false); err == nil && len(percentages) > 0 {
		health["cpu_percent"] = percentages[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		health["memory_percent"] = vm.UsedPercent
	}

	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			health["status"] = "degraded"
			health["store"] = "unreachable"
		} else {
			health["store"] = "ok"
		}
	}

	utils.Success(c, health)
}
