package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Simplified DTOs for the script
type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type createSessionData struct {
	ID string `json:"id"`
}

type exchangeData struct {
	TurnCount int `json:"turn_count"`
	Turns     []struct {
		Kind      string  `json:"kind"`
		Character string  `json:"character"`
		Text      string  `json:"text"`
		Emotion   string  `json:"emotion"`
		Intensity float64 `json:"intensity"`
	} `json:"turns"`
	Degraded bool `json:"degraded"`
}

var accessToken = os.Getenv("SIM_ACCESS_TOKEN")

func main() {
	workID := os.Getenv("SIM_WORK_ID")
	if workID == "" || accessToken == "" {
		log.Fatal("SIM_WORK_ID and SIM_ACCESS_TOKEN must be set")
	}

	color.Cyan("=== Roleplay Exchange Simulation Client ===")

	sessionID, err := createSession(workID)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	color.Green("Session Created: %s", sessionID)

	testCases := []string{
		"Hello! I just arrived in town, could you show me around?",
		"That sounds wonderful. By the way, my name is Rin.",
		"I heard there is an old shrine in the forest. Have you been there?",
	}

	userLabel := color.New(color.FgYellow, color.Bold)
	dialogueLabel := color.New(color.FgGreen)
	narratorLabel := color.New(color.FgHiBlack)

	for _, text := range testCases {
		fmt.Println()
		userLabel.Printf("USER: ")
		fmt.Println(text)

		start := time.Now()
		res, err := exchange(sessionID, text)
		elapsed := time.Since(start)

		if err != nil {
			color.Red("Error: %v", err)
			continue
		}

		for _, turn := range res.Turns {
			switch turn.Kind {
			case "dialogue":
				dialogueLabel.Printf("%s", turn.Character)
				if turn.Emotion != "" {
					fmt.Printf(" [%s %.1f]", turn.Emotion, turn.Intensity)
				}
				fmt.Printf(": %s\n", turn.Text)
			default:
				narratorLabel.Printf("* %s *\n", turn.Text)
			}
		}
		if res.Degraded {
			color.Red("(response was degraded to a raw narrator turn)")
		}
		fmt.Printf("turn %d, %v\n", res.TurnCount, elapsed)

		time.Sleep(1 * time.Second)
	}
}

func createSession(workID string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"work_id": workID})

	req, _ := http.NewRequest("POST", baseURL+"/session/v1", bytes.NewBuffer(payload))
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	var data createSessionData
	if err := doRequest(req, &data); err != nil {
		return "", err
	}
	return data.ID, nil
}

func exchange(sessionID, text string) (*exchangeData, error) {
	payload, _ := json.Marshal(map[string]string{"message": text})

	req, _ := http.NewRequest("POST", baseURL+"/session/v1/"+sessionID+"/exchange", bytes.NewBuffer(payload))
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	var data exchangeData
	if err := doRequest(req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func doRequest(req *http.Request, out interface{}) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API Error %d: %s", resp.StatusCode, string(body))
	}

	var res apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return err
	}
	return json.Unmarshal(res.Data, out)
}
