package cli

import (
	"context"
	"fmt"

	"github.com/harinadareddy11/account-vault/internal/vault"
)

func (a *App) ListProjects(ctx context.Context) error {
	projs, err := a.vault.GetProjects(ctx, a.userID)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if len(projs) == 0 {
		printlnFn("No projects.")
		return nil
	}
	for _, p := range projs {
		printlnFn(fmt.Sprintf("%s  %s", p.ID, p.Name))
	}
	return nil
}

func (a *App) AddProject(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Project name", a.out)
	if err != nil {
		return err
	}
	id, err := a.vault.CreateProject(ctx, a.userID, name)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Created project", id)
	return nil
}

func (a *App) ListServices(ctx context.Context) error {
	projectID, err := GetSimpleText(a.reader, "Project id", a.out)
	if err != nil {
		return err
	}
	services, err := a.vault.GetProjectServices(ctx, a.userID, projectID, a.currentPassword())
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if len(services) == 0 {
		printlnFn("No services.")
		return nil
	}
	for _, s := range services {
		line := fmt.Sprintf("%s  %-20s", s.ID, s.ServiceName)
		if s.ExpiryDate != nil {
			line += "  expires " + *s.ExpiryDate
		}
		printlnFn(line)
		if s.DecryptedPassword != "" {
			printlnFn("    password:", s.DecryptedPassword)
		}
		if s.DecryptedAPIKey != "" {
			printlnFn("    api key: ", s.DecryptedAPIKey)
		}
	}
	return nil
}

func (a *App) AddService(ctx context.Context) error {
	projectID, err := GetSimpleText(a.reader, "Project id", a.out)
	if err != nil {
		return err
	}
	serviceName, err := GetSimpleText(a.reader, "Service name", a.out)
	if err != nil {
		return err
	}
	email, err := GetOptionalText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}

	var password *string
	pw, err := GetPassword("Service password (empty to skip)", a.out)
	if err != nil {
		return err
	}
	if pw != "" {
		password = &pw
	}
	apiKey, err := GetOptionalText(a.reader, "API key", a.out)
	if err != nil {
		return err
	}
	expiry, err := GetOptionalText(a.reader, "Expiry date (YYYY-MM-DD)", a.out)
	if err != nil {
		return err
	}
	notes, err := GetOptionalText(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}

	id, err := a.vault.AddProjectService(ctx, a.userID, projectID, vault.NewService{
		ServiceName: serviceName,
		Email:       email,
		Password:    password,
		APIKey:      apiKey,
		ExpiryDate:  expiry,
		Notes:       notes,
	}, a.currentPassword())
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Added service", id)
	return nil
}

func (a *App) DeleteProject(ctx context.Context) error {
	projectID, err := GetSimpleText(a.reader, "Project id to delete", a.out)
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, "This deletes the project and all of its services. Continue?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Cancelled.")
		return nil
	}
	if err := a.vault.DeleteProject(ctx, projectID, a.userID); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Deleted.")
	return nil
}

func (a *App) DeleteService(ctx context.Context) error {
	serviceID, err := GetSimpleText(a.reader, "Service id to delete", a.out)
	if err != nil {
		return err
	}
	if err := a.vault.DeleteProjectService(ctx, serviceID, a.userID); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Deleted.")
	return nil
}
