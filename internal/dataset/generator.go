package dataset

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

var cities = []string{
	"Beijing", "Shanghai", "Guangzhou", "Shenzhen", "Chengdu", "Chongqing", "Hangzhou",
	"Nanjing", "Wuhan", "Changsha", "Kunming", "Xi'an", "Lanzhou", "Yinchuan", "Hohhot",
	"Dalian", "Harbin", "Changchun", "Shenyang", "Tianjin",
}

// Generate produces a synthetic flight dataset: sequential identifiers from
// G1001, random city pairs, departure times ascending from 06:00 on
// 2024-01-01 with the date advancing one day per ten flights, and random
// pricing, inventory, and delay markers. Generated flights are never
// cancelled and always for sale. Output is deterministic for a given seed.
func Generate(n int, seed int64) []models.Flight {
	rng := rand.New(rand.NewSource(seed))
	baseDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	slot := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)

	flights := make([]models.Flight, 0, n)
	for i := 1; i <= n; i++ {
		departure := cities[rng.Intn(len(cities))]
		destination := departure
		for destination == departure {
			destination = cities[rng.Intn(len(cities))]
		}

		duration := time.Duration(45+rng.Intn(136)) * time.Minute
		isDelay := rng.Intn(2) == 1
		delayMinutes := 0
		if isDelay {
			delayMinutes = rng.Intn(121)
		}

		flights = append(flights, models.Flight{
			ID:              fmt.Sprintf("G%d", 1000+i),
			DepartureCity:   departure,
			DestinationCity: destination,
			StopOver:        "None",
			DepartureDate:   baseDate.AddDate(0, 0, i/10).Format("20060102"),
			DepartureTime:   slot.Format("15:04"),
			ArrivalTime:     slot.Add(duration).Format("15:04"),
			Price:           float64(200 + rng.Intn(801)),
			Tickets:         50 + rng.Intn(151),
			IsDelay:         isDelay,
			DelayMinutes:    delayMinutes,
			IsForSale:       true,
		})

		slot = slot.Add(time.Duration(30+rng.Intn(91)) * time.Minute)
	}
	return flights
}
