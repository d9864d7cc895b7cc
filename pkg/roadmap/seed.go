package roadmap

import "time"

// DemoEmail and DemoUsername identify the one account that can log in.
const (
	DemoEmail    = "okan@gmail.com"
	DemoUsername = "okanacer"
)

func leaf(id, title, desc string) Node {
	return Node{ID: id, Title: title, Description: desc}
}

func branch(id, title, desc string, children ...Node) Node {
	return Node{ID: id, Title: title, Description: desc, Children: children}
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// SeedUsers returns the static demo accounts.
func SeedUsers() []User {
	return []User{
		{ID: "u1", Username: "ahmet_yilmaz", Avatar: "https://i.pravatar.cc/150?u=ahmet_yilmaz"},
		{ID: "u2", Username: "ayse_kaya", Avatar: "https://i.pravatar.cc/150?u=ayse_kaya"},
		{ID: "u3", Username: "okanacer", Avatar: "https://i.pravatar.cc/150?u=okanacer"},
	}
}

// SeedRoadmaps returns a fresh copy of the demo roadmaps, newest first.
// Every call builds new slices, so callers may mutate the result freely.
func SeedRoadmaps() []Roadmap {
	return []Roadmap{
		{
			ID:          "4",
			Title:       "How to Marry Elsin",
			Description: "A step-by-step guide to a happy marriage with the love of your life. Practical tips and emotional preparation for taking the relationship to the next level.",
			Author:      Author{ID: "u3", Username: "okanacer"},
			Likes:       256,
			Tags:        []string{"relationships", "love", "marriage", "personal growth"},
			Nodes: []Node{
				branch("j1", "Deciding to Marry", "Confirm mutual feelings and clarify plans for the future.",
					branch("j1.1", "Emotional Bond", "Understand whether the feelings are mutual.",
						branch("j1.1.1", "Open Communication", "Express feelings sincerely.",
							leaf("j1.1.1.1", "Active Listening", "Really listen to and understand Elsin."),
							leaf("j1.1.1.2", "Empathy", "Try to see things from her point of view."),
						),
						leaf("j1.1.2", "Observe and Understand", "Pay close attention to her reactions and feelings."),
					),
					branch("j1.2", "Talk About the Future", "Open conversation about shared goals and expectations.",
						leaf("j1.2.1", "Career Goals", "Share career expectations on both sides."),
						leaf("j1.2.2", "Lifestyle Preferences", "Shared lifestyle and daily routine expectations."),
						leaf("j1.2.3", "Children", "Thoughts on having children or not."),
					),
				),
				branch("j2", "The Proposal", "Plan an unforgettable proposal.",
					branch("j2.1", "Creative Ideas", "Unusual, personal proposal ideas.",
						leaf("j2.1.1", "Research Her Hobbies", "Build ideas around her interests."),
						leaf("j2.1.2", "Hidden Surprises", "Create unexpected moments."),
					),
					leaf("j2.2", "Place and Time", "Choose the best setting for the proposal."),
				),
				branch("j3", "Meeting the Families", "Harmony between cultures and family structures.",
					leaf("j3.1", "First Impressions", "Tips for a positive first meeting."),
					leaf("j3.2", "Common Values", "Build bridges between the families."),
				),
				branch("j4", "Wedding Preparations", "Practical steps for the wedding and after.",
					leaf("j4.1", "Wedding Budget", "Financial planning and spending control."),
					leaf("j4.2", "Legal Process", "Marriage license and documents."),
					leaf("j4.3", "Setting Up Home", "Prepare the new living space."),
				),
				branch("j5", "A Lasting Marriage", "Advice for the long-term health of the marriage.",
					leaf("j5.1", "Communication and Understanding", "Keys to a healthy relationship."),
					leaf("j5.2", "Try New Things Together", "Activities that keep the relationship alive."),
				),
			},
			Comments: []Comment{
				{ID: "c4-1", UserID: "u1", Username: "ahmet_yilmaz", Text: "Elsin, really? Good luck Okan! A brave roadmap ;)", Timestamp: ts("2025-07-29T14:30:00Z")},
				{ID: "c4-2", UserID: "u2", Username: "ayse_kaya", Text: "Marriage is sacred, I hope everything goes the way you want. My roadmap gets an update soon, you can take tips from there :)", Timestamp: ts("2025-07-29T15:10:00Z")},
				{ID: "c4-3", UserID: "u3", Username: "okanacer", Text: "Thanks friends, your support means a lot :)", Timestamp: ts("2025-07-29T16:00:00Z")},
			},
			CreatedAt: ts("2025-07-29T12:00:00Z"),
		},
		{
			ID:          "1",
			Title:       "Become a Mobile Developer with React Native in 6 Months",
			Description: "Steps to become a professional React Native developer from scratch in six months. An intense, practice-driven journey.",
			Author:      Author{ID: "u1", Username: "ahmet_yilmaz"},
			Likes:       152,
			Tags:        []string{"mobile", "react-native", "frontend", "javascript", "career"},
			Nodes: []Node{
				leaf("rn1", "JavaScript and ES6+ Basics", "Modern JavaScript, asynchronous programming and basic data structures."),
				leaf("rn2", "React Fundamentals", "Components, state, props, lifecycle and hooks."),
				leaf("rn3", "React Native Setup", "Set up Expo or the React Native CLI and run your first app."),
				leaf("rn4", "Core Components and Styling", "View, Text, Image, ScrollView, FlatList, StyleSheet and Flexbox."),
				leaf("rn5", "Navigation", "Stack, tab and drawer navigation."),
				leaf("rn6", "State Management", "Context API, Redux or Zustand for app-wide state."),
				leaf("rn7", "API Integration", "Talk to REST APIs, fetch and send data, handle errors."),
				leaf("rn8", "Device Features", "Camera, location, notifications and native modules."),
				leaf("rn9", "Performance", "Optimization techniques and debugging tools."),
				leaf("rn10", "Publishing", "Ship to the App Store and Google Play."),
			},
			Comments: []Comment{
				{ID: "c1-1", UserID: "u3", Username: "okanacer", Text: "A really thorough and helpful roadmap! Thanks Ahmet.", Timestamp: ts("2025-07-28T09:15:00Z")},
				{ID: "c1-2", UserID: "u2", Username: "ayse_kaya", Text: "Liked the Zustand suggestion for state management, a lighter alternative.", Timestamp: ts("2025-07-28T10:05:00Z")},
			},
			CreatedAt: ts("2025-07-28T08:00:00Z"),
		},
		{
			ID:          "2",
			Title:       "Becoming a Successful Freelancer from Scratch",
			Description: "Practical knowledge and strategies for anyone who wants to work for themselves. From finding clients to pricing.",
			Author:      Author{ID: "u2", Username: "ayse_kaya"},
			Likes:       230,
			Tags:        []string{"freelance", "career", "business", "marketing"},
			Nodes: []Node{
				leaf("f1", "Pick a Niche", "Decide which field to freelance in and grow in it."),
				leaf("f2", "Build a Portfolio", "Show off your best work professionally."),
				leaf("f3", "Pricing Strategies", "Learn how to price your services and negotiate."),
				leaf("f4", "Finding Clients", "Platforms, social media and networking."),
				leaf("f5", "Contracts and Legal", "Understand your legal obligations and contract details."),
				leaf("f6", "Time Management", "Deliver projects on time."),
				leaf("f7", "Communication", "Keep clients happy through clear communication."),
				leaf("f8", "Personal Brand", "Build a brand and market yourself."),
				leaf("f9", "Finances", "Track income and expenses, taxes and planning."),
				leaf("f10", "Keep Learning", "Follow the industry and keep improving."),
			},
			Comments: []Comment{
				{ID: "c2-1", UserID: "u1", Username: "ahmet_yilmaz", Text: "Ayse, this will help me a lot too! Thanks for the detail.", Timestamp: ts("2025-07-27T18:00:00Z")},
				{ID: "c2-2", UserID: "u3", Username: "okanacer", Text: "Great freelancing tips, picking a niche is especially important.", Timestamp: ts("2025-07-27T19:30:00Z")},
			},
			CreatedAt: ts("2025-07-27T08:00:00Z"),
		},
		{
			ID:          "3",
			Title:       "How I Prepared for My First Marathon",
			Description: "How to get physically and mentally ready for your first marathon, from the training plan to nutrition.",
			Author:      Author{ID: "u2", Username: "ayse_kaya"},
			Likes:       98,
			Tags:        []string{"running", "marathon", "fitness", "health", "sports"},
			Nodes: []Node{
				leaf("m1", "Set a Goal and Register", "Choose a marathon and complete registration."),
				leaf("m2", "Pick a Training Plan", "Find a plan that fits your experience."),
				leaf("m3", "Shoes and Gear", "Get the right running shoes and basic equipment."),
				leaf("m4", "Nutrition and Hydration", "Eating and drinking through the training block."),
				leaf("m5", "Injury Prevention", "Flexibility, strength work and rest."),
				leaf("m6", "Long Runs", "Build the weekly long run gradually."),
				leaf("m7", "Tempo Workouts", "Tempo and interval sessions for speed."),
				leaf("m8", "Rest and Recovery", "Sleep and active recovery."),
				leaf("m9", "Mental Preparation", "Staying strong on race day."),
				leaf("m10", "Race Day", "Pacing, fueling and crossing the finish line."),
			},
			Comments: []Comment{
				{ID: "c3-1", UserID: "u3", Username: "okanacer", Text: "A marathon roadmap! New territory for me, but very motivating.", Timestamp: ts("2025-07-26T08:00:00Z")},
				{ID: "c3-2", UserID: "u1", Username: "ahmet_yilmaz", Text: "I was thinking of starting to run, this is exactly what I needed!", Timestamp: ts("2025-07-26T09:45:00Z")},
			},
			CreatedAt: ts("2025-07-26T08:00:00Z"),
		},
	}
}
