package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/softgatehq/softgate/internal/agent/lifecycle"
	"github.com/softgatehq/softgate/internal/common"
)

func (a *App) capture(ctx context.Context) {

	fileName, err := GetSimpleText(a.reader, "File name", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	sizeText, err := GetSimpleText(a.reader, "File size in bytes (empty if unknown)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}
	var size int64
	if sizeText != "" {
		size, err = strconv.ParseInt(sizeText, 10, 64)
		if err != nil {
			fmt.Println("File size must be a number")
			return
		}
	}

	url, err := GetSimpleText(a.reader, "Download URL", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	referrer, err := GetSimpleText(a.reader, "Referrer page (empty for direct download)", os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}

	d, err := a.lifecycle.Capture(ctx, lifecycle.CaptureEvent{
		FileName: fileName,
		FileSize: size,
		URL:      url,
		Referrer: referrer,
	})
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			fmt.Println("File name is required")
			return
		}
		log.Println(err.Error())
		return
	}

	fmt.Printf("Captured %s as %s\n", d.FileName, d.LocalID)
}

func (a *App) list(ctx context.Context) {
	items, err := a.lifecycle.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return
	}

	if len(items) == 0 {
		fmt.Println("No pending downloads")
		return
	}

	for _, d := range items {
		line := fmt.Sprintf("%s  %-10s %s", d.LocalID, d.Status, d.FileName)
		if d.LastError != "" {
			line += fmt.Sprintf(" (%s)", d.LastError)
		}
		fmt.Println(line)
	}
}

func (a *App) send(ctx context.Context, localID string) {
	d, err := a.lifecycle.Send(ctx, localID)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			fmt.Println("No such record:", localID)
		case errors.Is(err, common.ErrAlreadySent):
			fmt.Println("Already sent, use refresh to check its status")
		case errors.Is(err, common.ErrTerminalState):
			fmt.Println("Request already decided, nothing to send")
		case errors.Is(err, common.ErrorUnauthorized):
			fmt.Println("API key rejected, use the key command to update it")
		case errors.Is(err, common.ErrNoReachableEndpoint):
			fmt.Println("Could not reach the approval server, will stay pending")
		default:
			log.Println(err.Error())
		}
		return
	}
	fmt.Printf("Sent %s, server request id %s\n", d.FileName, d.ServerRequestID)
}

func (a *App) refresh(ctx context.Context) {
	if err := a.lifecycle.Refresh(ctx); err != nil {
		if errors.Is(err, common.ErrNoReachableEndpoint) {
			fmt.Println("Could not reach the approval server")
			return
		}
		log.Println(err.Error())
		return
	}
	fmt.Println("Refreshed")
	a.list(ctx)
}

func (a *App) cancel(ctx context.Context, localID string) {
	if err := a.lifecycle.Cancel(ctx, localID); err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			fmt.Println("No such record:", localID)
		case errors.Is(err, common.ErrTerminalState):
			fmt.Println("Request already decided, it cannot be cancelled")
		case errors.Is(err, common.ErrNoReachableEndpoint):
			fmt.Println("Could not reach the approval server, record kept")
		default:
			log.Println(err.Error())
		}
		return
	}
	fmt.Println("Cancelled", localID)
}

func (a *App) storeKey(ctx context.Context) {
	key, err := GetAPIKey(os.Stdout)
	if err != nil {
		log.Println(err.Error())
		return
	}
	if len(key) == 0 {
		fmt.Println("API key cannot be empty")
		return
	}
	if err := a.repos.Metadata.Set(ctx, apiKeyMetadataKey, key); err != nil {
		log.Println(err.Error())
		return
	}
	fmt.Println("API key saved")
}

func (a *App) verify(ctx context.Context) {
	info, err := a.client.VerifyKey(ctx)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			fmt.Println("API key rejected by the server")
		case errors.Is(err, common.ErrNoReachableEndpoint):
			fmt.Println("Could not reach the approval server")
		default:
			log.Println(err.Error())
		}
		return
	}
	fmt.Printf("Key accepted, team %s\n", info.TeamName)
}
