package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

// fieldCount is the number of positional fields in one dataset row:
// id, departure city, destination city, stopover, departure date,
// departure time, arrival time, price, tickets, delay flag, delay minutes,
// cancelled flag, for-sale flag.
const fieldCount = 13

// Load parses whitespace-separated flight rows. The contract is lenient:
// blank lines and rows with fewer than 13 fields are skipped rather than
// rejected, and numeric fields default to zero on malformed input. Flag
// fields are true iff the field is "1". Load returns the parsed records and
// the number of skipped rows.
func Load(r io.Reader) ([]models.Flight, int, error) {
	var (
		flights []models.Flight
		skipped int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < fieldCount {
			skipped++
			continue
		}
		flights = append(flights, models.Flight{
			ID:              fields[0],
			DepartureCity:   fields[1],
			DestinationCity: fields[2],
			StopOver:        fields[3],
			DepartureDate:   fields[4],
			DepartureTime:   fields[5],
			ArrivalTime:     fields[6],
			Price:           parseFloat(fields[7]),
			Tickets:         parseInt(fields[8]),
			IsDelay:         fields[9] == "1",
			DelayMinutes:    parseInt(fields[10]),
			IsCancelled:     fields[11] == "1",
			IsForSale:       fields[12] == "1",
		})
	}
	if err := scanner.Err(); err != nil {
		return flights, skipped, fmt.Errorf("failed to read dataset: %w", err)
	}
	return flights, skipped, nil
}

// LoadFile reads a dataset file with Load.
func LoadFile(path string) ([]models.Flight, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// WriteTo emits flights in the 13-field text format Load reads back.
func WriteTo(w io.Writer, flights []models.Flight) error {
	for _, f := range flights {
		_, err := fmt.Fprintf(w, "%s %s %s %s %s %s %s %g %d %s %d %s %s\n",
			f.ID, f.DepartureCity, f.DestinationCity, f.StopOver,
			f.DepartureDate, f.DepartureTime, f.ArrivalTime,
			f.Price, f.Tickets,
			flag(f.IsDelay), f.DelayMinutes, flag(f.IsCancelled), flag(f.IsForSale))
		if err != nil {
			return fmt.Errorf("failed to write dataset: %w", err)
		}
	}
	return nil
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}
