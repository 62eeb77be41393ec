package normalize

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sourceplane/imagewizard/internal/model"
)

// MapOnPremToHosted converts an on-premises blueprint (TOML or JSON, already
// decoded into generic values) into the hosted export shape.
// Missing fields are tolerated; only a non-object document or an unreadable
// filesystem size is an error.
func MapOnPremToHosted(doc interface{}) (*model.BlueprintExport, error) {
	bp, ok := doc.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("blueprint must be an object, got %s", typeName(doc))
	}

	export := &model.BlueprintExport{
		Name:         str(bp["name"]),
		Description:  str(bp["description"]),
		Distribution: str(bp["distro"]),
		Metadata: model.ExportMetadata{
			IsOnPrem: true,
		},
	}

	c := &export.Customizations
	c.Packages = mapPackages(bp)
	c.EnabledModules = mapModules(sliceOf(bp["modules"]))

	custom := mapOf(bp["customizations"])
	if custom == nil {
		return export, nil
	}

	c.Hostname = str(custom["hostname"])
	c.InstallationDevice = str(custom["installation_device"])
	c.Users = mapUsers(sliceOf(custom["user"]), sliceOf(custom["sshkey"]))
	c.Groups = mapUserGroups(sliceOf(custom["group"]))

	if kernel := mapOf(custom["kernel"]); kernel != nil {
		c.Kernel = &model.Kernel{
			Name:   str(kernel["name"]),
			Append: str(kernel["append"]),
		}
	}

	if tz := mapOf(custom["timezone"]); tz != nil {
		c.Timezone = &model.Timezone{
			Timezone:   str(tz["timezone"]),
			NTPServers: strSlice(tz["ntpservers"]),
		}
	}

	if locale := mapOf(custom["locale"]); locale != nil {
		c.Locale = &model.Locale{
			Languages: strSlice(locale["languages"]),
			Keyboard:  str(locale["keyboard"]),
		}
	}

	if fw := mapOf(custom["firewall"]); fw != nil {
		c.Firewall = &model.Firewall{
			Ports: strSlice(fw["ports"]),
		}
		if svc := mapOf(fw["services"]); svc != nil {
			c.Firewall.Services = &model.FirewallServices{
				Enabled:  strSlice(svc["enabled"]),
				Disabled: strSlice(svc["disabled"]),
			}
		}
	}

	if svc := mapOf(custom["services"]); svc != nil {
		c.Services = &model.Services{
			Enabled:  strSlice(svc["enabled"]),
			Disabled: strSlice(svc["disabled"]),
			Masked:   strSlice(svc["masked"]),
		}
	}

	filesystem, err := mapFilesystem(sliceOf(custom["filesystem"]))
	if err != nil {
		return nil, err
	}
	c.Filesystem = filesystem

	if oscap := mapOf(custom["openscap"]); oscap != nil {
		c.OpenScap = &model.OpenScapProfile{
			ProfileID: str(oscap["profile_id"]),
		}
	}

	if fips, ok := custom["fips"].(bool); ok {
		c.FIPS = &model.FIPS{Enabled: fips}
	}

	c.CustomRepositories, c.PayloadRepositories = mapRepositories(sliceOf(custom["repositories"]))

	return export, nil
}

// mapPackages flattens packages and package groups; groups use the "@name" form
func mapPackages(bp map[string]interface{}) []string {
	var packages []string
	for _, p := range sliceOf(bp["packages"]) {
		switch v := p.(type) {
		case string:
			if v != "" {
				packages = append(packages, v)
			}
		case map[string]interface{}:
			if name := str(v["name"]); name != "" {
				packages = append(packages, name)
			}
		}
	}
	for _, g := range sliceOf(bp["groups"]) {
		if name := str(mapOf(g)["name"]); name != "" {
			packages = append(packages, "@"+name)
		}
	}
	return packages
}

func mapModules(modules []interface{}) []model.Module {
	var out []model.Module
	for _, m := range modules {
		mod := mapOf(m)
		name := str(mod["name"])
		if name == "" {
			continue
		}
		stream := str(mod["stream"])
		if stream == "" {
			stream = str(mod["version"])
		}
		out = append(out, model.Module{Name: name, Stream: stream})
	}
	return out
}

// mapUsers converts user entries and folds standalone sshkey entries into
// the matching user, creating the user when it is not declared.
func mapUsers(users, sshKeys []interface{}) []model.User {
	var out []model.User
	index := make(map[string]int)

	for _, u := range users {
		user := mapOf(u)
		name := str(user["name"])
		if name == "" {
			continue
		}
		index[name] = len(out)
		out = append(out, model.User{
			Name:     name,
			SSHKey:   str(user["key"]),
			Password: str(user["password"]),
			Groups:   strSlice(user["groups"]),
		})
	}

	for _, k := range sshKeys {
		entry := mapOf(k)
		name := str(entry["user"])
		key := str(entry["key"])
		if name == "" || key == "" {
			continue
		}
		if i, ok := index[name]; ok {
			if out[i].SSHKey == "" {
				out[i].SSHKey = key
			}
			continue
		}
		index[name] = len(out)
		out = append(out, model.User{Name: name, SSHKey: key})
	}

	return out
}

func mapUserGroups(groups []interface{}) []model.UserGroup {
	var out []model.UserGroup
	for _, g := range groups {
		group := mapOf(g)
		name := str(group["name"])
		if name == "" {
			continue
		}
		out = append(out, model.UserGroup{Name: name, GID: intOf(group["gid"])})
	}
	return out
}

func mapFilesystem(entries []interface{}) ([]model.FilesystemEntry, error) {
	var out []model.FilesystemEntry
	for i, e := range entries {
		entry := mapOf(e)
		mountpoint := str(entry["mountpoint"])
		if mountpoint == "" {
			continue
		}
		raw, ok := entry["minsize"]
		if !ok {
			raw = entry["min_size"]
		}
		size, err := parseSize(raw)
		if err != nil {
			return nil, fmt.Errorf("filesystem entry %d (%s): %w", i, mountpoint, err)
		}
		out = append(out, model.FilesystemEntry{Mountpoint: mountpoint, MinSize: size})
	}
	return out, nil
}

// parseSize accepts a byte count or a human readable size such as "20 GiB"
func parseSize(v interface{}) (uint64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case int64:
		if s < 0 {
			return 0, fmt.Errorf("invalid minsize %d", s)
		}
		return uint64(s), nil
	case int:
		if s < 0 {
			return 0, fmt.Errorf("invalid minsize %d", s)
		}
		return uint64(s), nil
	case float64:
		n, ok := wholeNumber(s)
		if !ok {
			return 0, fmt.Errorf("invalid minsize %v", s)
		}
		return n, nil
	case json.Number:
		n, err := s.Int64()
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid minsize %s", s)
		}
		return uint64(n), nil
	case string:
		n, err := humanize.ParseBytes(s)
		if err != nil {
			return 0, fmt.Errorf("invalid minsize %q: %w", s, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid minsize of type %s", typeName(v))
	}
}

func mapRepositories(repos []interface{}) ([]model.CustomRepository, []model.PayloadRepository) {
	var custom []model.CustomRepository
	var payload []model.PayloadRepository

	for _, r := range repos {
		repo := mapOf(r)
		id := str(repo["id"])
		baseURLs := strSlice(repo["baseurls"])
		if len(baseURLs) == 0 {
			baseURLs = strSlice(repo["baseurl"])
		}
		if id == "" || len(baseURLs) == 0 {
			continue
		}
		gpgKeys := strSlice(repo["gpgkeys"])
		checkGPG := boolOf(repo["gpgcheck"])

		enabled := true
		if e, ok := repo["enabled"].(bool); ok {
			enabled = e
		}

		custom = append(custom, model.CustomRepository{
			ID:        id,
			Name:      str(repo["name"]),
			BaseURL:   baseURLs,
			GPGKey:    gpgKeys,
			CheckGPG:  checkGPG,
			Enabled:   enabled,
			Priority:  intOf(repo["priority"]),
			SSLVerify: boolOf(repo["sslverify"]),
		})

		for _, url := range baseURLs {
			p := model.PayloadRepository{BaseURL: url, CheckGPG: checkGPG}
			if len(gpgKeys) > 0 {
				p.GPGKey = gpgKeys[0]
			}
			payload = append(payload, p)
		}
	}

	return custom, payload
}
