// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package category

// catalog is the fixed vocabulary. The term lists are kept exactly as the
// analysts wrote them, spelling included, so saved searches stay comparable.
var catalog = []Category{
	{
		ID:    "apt_campaigns",
		Label: "APT Campaigns",
		Description: "Targeted, long-term intrusions by well-resourced groups aiming to steal data, " +
			"disrupt operations, or hold espionage access.",
		Hint:    "healthcare, Lazarus Group",
		aliases: []string{"apt"},
		terms: []Term{
			{Text: `intitle:"APT"`},
			or(`"advanced persistent threat"`),
			or(`"APT campaign"`),
			and(`"cyber espionage"`),
			or(`"cyber threat"`),
			or(`"nation-state"`),
			or(`"state-sponsored"`),
			or(`"cyber operation"`),
		},
	},
	{
		ID:    "data_breaches",
		Label: "Data Breaches",
		Description: "Sensitive or confidential data exposed to unauthorized parties: leaked " +
			"personal records, credentials, or proprietary business data.",
		Hint:    "healthcare, finance",
		aliases: []string{"breach", "data_breach"},
		terms: []Term{
			{Text: `intitle:"data breach"`},
			or(`"data leak"`),
			and(`"data exposure"`),
			or(`"credential leak"`),
			or(`"data compromise"`),
			or(`"data theft"`),
			or(`"data dump"`),
			or(`"leaked database"`),
		},
	},
	{
		ID:    "influence_ops",
		Label: "Influence Operations",
		Description: "Disinformation, propaganda, and other psychological manipulation aimed at " +
			"public opinion or political outcomes.",
		Hint:    "government, media, Russia",
		aliases: []string{"influence", "influence_operations"},
		terms: []Term{
			{Text: `intitle:"influence operations"`},
			or(`"disinformation campaign"`),
			or(`"information operation"`),
			or(`"propganda"`),
			or(`"government influence"`),
			or(`"foreign influence"`),
		},
	},
	{
		ID:    "malware_events",
		Label: "Malware Events",
		Description: "Viruses, worms, trojans, botnets, and other malicious software that damages " +
			"systems, steals information, or disrupts operations.",
		Hint:    "healthcare, finance",
		aliases: []string{"malware"},
		terms: []Term{
			{Text: `intitle:"malware"`},
			and(`"malware campaign"`),
			or(`"botnet activity"`),
			or(`"trojan"`),
			or(`RAT`),
			or(`"malicious payload"`),
			or(`"malware distribution"`),
			or(`"malicious software"`),
		},
	},
	{
		ID:    "ransomware_events",
		Label: "Ransomware Attacks",
		Description: "Malware that locks or encrypts a victim's data and demands payment for its " +
			"release, including extortion-only campaigns.",
		Hint:    "government, finance, Qilin",
		aliases: []string{"ransomware"},
		terms: []Term{
			{Text: `intitle:"ransomware"`},
			or(`"ransomware attack"`),
			and(`"ransomware incident"`),
			or(`"ransomware group"`),
			or(`"ransomware campaign"`),
			or(`"cyber extortion"`),
			or(`"ransomware"`),
		},
	},
	{
		ID:    "social_engineering_campaigns",
		Label: "Social Engineering Campaigns",
		Description: "Phishing, pretexting, impersonation, and fraud that manipulate people into " +
			"revealing information or acting against their interests.",
		Hint:    "finance, government",
		aliases: []string{"social", "social_engineering", "phishing"},
		terms: []Term{
			{Text: `intitle:"social engineering"`},
			or(`"phishing"`),
			and(`"social engineering attack"`),
			or(`"phishing scam"`),
			or(`"impersonation scam"`),
			or(`"email fraud"`),
			or(`"cyber fraud"`),
			or(`deception"`),
			or(`"fraud campaign"`),
		},
	},
}
